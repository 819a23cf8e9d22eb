package token

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrValidation is the root of the claims-rule error taxonomy. Every rule
// failure wraps it, so callers can match the class with errors.Is and still
// log the specific rule from the message.
var ErrValidation = errors.New("claims validation failed")

var (
	// ErrMissingSubject is returned when the required subject claim is absent.
	ErrMissingSubject = fmt.Errorf("%w: subject is required", ErrValidation)
	// ErrMissingExpiry is returned when the required expiry claim is absent.
	ErrMissingExpiry = fmt.Errorf("%w: expiry is required", ErrValidation)
	// ErrNotYetValid is returned when the not-before claim is in the future.
	ErrNotYetValid = fmt.Errorf("%w: token not yet valid", ErrValidation)
	// ErrExpired is returned when the expiry claim is in the past.
	ErrExpired = fmt.Errorf("%w: token expired", ErrValidation)
	// ErrIssuedTooEarly is returned when issued-at predates the configured floor.
	ErrIssuedTooEarly = fmt.Errorf("%w: token issued before allowed floor", ErrValidation)
	// ErrAudience is returned when the required audience is not present.
	ErrAudience = fmt.Errorf("%w: audience mismatch", ErrValidation)
	// ErrIssuer is returned when the issuer does not match the required value.
	ErrIssuer = fmt.Errorf("%w: issuer mismatch", ErrValidation)
)

// ValidateOptions configures Validate. The zero value checks only the
// temporal rules with no clock skew allowance.
type ValidateOptions struct {
	// Now overrides the validation clock; zero means time.Now().
	Now time.Time
	// ClockSkew widens the expiry and not-before boundaries in both
	// directions to absorb clock drift between issuer and validator.
	ClockSkew time.Duration
	// SkipExpiry disables the expiry rule. Not-before is always enforced.
	SkipExpiry bool
	// MinIssuedAt, when non-zero, rejects tokens whose issued-at claim is
	// older than this unix timestamp. Tokens without an issued-at claim
	// pass; use it to fence off tokens minted before a key rotation.
	MinIssuedAt int64
	// Audience, when non-empty, must be a member of the audience claim.
	Audience string
	// Issuer, when non-empty, must equal the issuer claim.
	Issuer string
}

// CheckRequired verifies the presence of the two mandatory claims.
func (c *Claims) CheckRequired() error {
	if c.Subject == "" {
		return ErrMissingSubject
	}
	if c.Expiry == 0 {
		return ErrMissingExpiry
	}
	return nil
}

// IsExpired reports whether the expiry claim is before now minus skew.
func (c *Claims) IsExpired(now time.Time, skew time.Duration) bool {
	return c.Expiry < now.Add(-skew).Unix()
}

// IsNotYetValid reports whether a present not-before claim is after now
// plus skew. A missing not-before claim never fails.
func (c *Claims) IsNotYetValid(now time.Time, skew time.Duration) bool {
	return c.NotBefore != 0 && c.NotBefore > now.Add(skew).Unix()
}

// Validate applies the temporal and identity rules in a fixed order:
// not-before, expiry, issued-at floor, audience, issuer. The first failing
// rule is returned and later rules are not evaluated.
func (c *Claims) Validate(opts ValidateOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if c.IsNotYetValid(now, opts.ClockSkew) {
		return ErrNotYetValid
	}

	if !opts.SkipExpiry && c.IsExpired(now, opts.ClockSkew) {
		return ErrExpired
	}

	if opts.MinIssuedAt != 0 && c.IssuedAt != 0 && c.IssuedAt < opts.MinIssuedAt {
		return ErrIssuedTooEarly
	}

	if opts.Audience != "" && !slices.Contains(c.Audience, opts.Audience) {
		return ErrAudience
	}

	if opts.Issuer != "" && c.Issuer != opts.Issuer {
		return ErrIssuer
	}

	return nil
}
