package goSeal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MrEthical07/goSeal/permission"
	"github.com/MrEthical07/goSeal/token"
	"github.com/google/uuid"
)

// IssuedToken is the result of TokenBuilder.Build: the wire token plus the
// exact claims sealed inside it, so callers can record the token ID for
// later revocation without re-decoding their own token.
type IssuedToken struct {
	Token  string
	Claims token.Claims
}

// TokenBuilder accumulates claims for one token. It is a plain mutable
// value local to one issuance; setters return the receiver for chaining.
// IssuedAt defaults to the construction time, Issuer and Audience default
// from the engine configuration, and the token ID defaults to a fresh UUID
// at Build.
type TokenBuilder struct {
	engine   *Engine
	claims   token.Claims
	explicit []string
	footer   []byte
	ttl      time.Duration
	lifetime string
}

// CreateToken starts an issuance for the given subject.
func (e *Engine) CreateToken(subject string) *TokenBuilder {
	b := &TokenBuilder{
		engine: e,
		claims: token.Claims{
			Subject:  subject,
			IssuedAt: time.Now().Unix(),
		},
	}
	if e != nil {
		b.claims.Issuer = e.config.Issuer
		if e.config.Audience != "" {
			b.claims.Audience = []string{e.config.Audience}
		}
	}
	return b
}

// WithSubject replaces the subject.
func (b *TokenBuilder) WithSubject(subject string) *TokenBuilder {
	b.claims.Subject = subject
	return b
}

// WithExpiry sets an absolute expiry instant.
func (b *TokenBuilder) WithExpiry(at time.Time) *TokenBuilder {
	b.claims.Expiry = at.Unix()
	return b
}

// WithTTL sets the expiry relative to the build clock.
func (b *TokenBuilder) WithTTL(ttl time.Duration) *TokenBuilder {
	b.ttl = ttl
	return b
}

// WithLifetime sets the expiry from a shorthand like "15m", "12h", "7d",
// or "2w" (units s, m, h, d, w), resolved against the clock at Build time.
// A malformed shorthand fails Build with ErrValidation.
func (b *TokenBuilder) WithLifetime(shorthand string) *TokenBuilder {
	b.lifetime = shorthand
	return b
}

// WithIssuedAt overrides the default issued-at stamp.
func (b *TokenBuilder) WithIssuedAt(at time.Time) *TokenBuilder {
	b.claims.IssuedAt = at.Unix()
	return b
}

// WithIssuer overrides the configured issuer.
func (b *TokenBuilder) WithIssuer(issuer string) *TokenBuilder {
	b.claims.Issuer = issuer
	return b
}

// WithAudience replaces the audience set.
func (b *TokenBuilder) WithAudience(audience ...string) *TokenBuilder {
	b.claims.Audience = audience
	return b
}

// WithNotBefore sets the not-before instant.
func (b *TokenBuilder) WithNotBefore(at time.Time) *TokenBuilder {
	b.claims.NotBefore = at.Unix()
	return b
}

// WithTokenID overrides the generated token ID. The token ID is the handle
// RevokeToken works with; issue without one only if token-level revocation
// is not needed.
func (b *TokenBuilder) WithTokenID(id string) *TokenBuilder {
	b.claims.TokenID = id
	return b
}

// WithRoles attaches role names, expanded against the engine's role table
// at Build.
func (b *TokenBuilder) WithRoles(roles ...string) *TokenBuilder {
	b.claims.Roles = roles
	return b
}

// WithPermissions grants capability patterns beyond what the roles expand
// to. Patterns are format-checked at Build.
func (b *TokenBuilder) WithPermissions(patterns ...string) *TokenBuilder {
	b.explicit = patterns
	return b
}

// WithClaim attaches one custom claim. Names colliding with the known wire
// keys are dropped at encode time.
func (b *TokenBuilder) WithClaim(name string, value any) *TokenBuilder {
	if b.claims.Custom == nil {
		b.claims.Custom = make(map[string]any)
	}
	b.claims.Custom[name] = value
	return b
}

// WithFooter attaches authenticated cleartext carried alongside the sealed
// payload.
func (b *TokenBuilder) WithFooter(footer []byte) *TokenBuilder {
	b.footer = footer
	return b
}

// Build resolves relative expiries, merges role and explicit permissions,
// and seals the claims into a wire token.
func (b *TokenBuilder) Build() (*IssuedToken, error) {
	e := b.engine
	if e == nil {
		return nil, ErrEngineNotReady
	}

	tok, err := b.build(e)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		return nil, err
	}
	e.metricInc(MetricIssueSuccess)
	return tok, nil
}

func (b *TokenBuilder) build(e *Engine) (*IssuedToken, error) {
	if b.lifetime != "" {
		d, err := parseLifetime(b.lifetime)
		if err != nil {
			return nil, err
		}
		b.claims.Expiry = time.Now().Add(d).Unix()
	} else if b.ttl > 0 {
		b.claims.Expiry = time.Now().Add(b.ttl).Unix()
	}

	if err := b.claims.CheckRequired(); err != nil {
		return nil, err
	}

	for _, pattern := range b.explicit {
		if !permission.ValidateFormat(pattern) {
			return nil, fmt.Errorf("%w: invalid permission pattern %q", ErrValidation, pattern)
		}
	}
	b.claims.Permissions = e.roles.Merge(b.claims.Roles, b.explicit)

	if b.claims.TokenID == "" {
		b.claims.TokenID = uuid.NewString()
	}

	wire, err := token.Encode(&b.claims, e.key, b.footer)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{Token: wire, Claims: b.claims}, nil
}

// parseLifetime resolves the "<n><unit>" shorthand. n must be a positive
// integer; unit is one of s, m, h, d, w.
func parseLifetime(shorthand string) (time.Duration, error) {
	if len(shorthand) < 2 {
		return 0, fmt.Errorf("%w: malformed duration %q", ErrValidation, shorthand)
	}

	n, err := strconv.Atoi(shorthand[:len(shorthand)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: malformed duration %q", ErrValidation, shorthand)
	}

	var unit time.Duration
	switch shorthand[len(shorthand)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("%w: malformed duration %q", ErrValidation, shorthand)
	}

	return time.Duration(n) * unit, nil
}
