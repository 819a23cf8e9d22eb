package goSeal

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goSeal/internal/cache"
	"github.com/MrEthical07/goSeal/permission"
	"github.com/MrEthical07/goSeal/revocation"
	"github.com/MrEthical07/goSeal/token"
)

// Engine is the token authority. It owns the symmetric key, the frozen role
// table, the revocation store, and the validation cache, and is safe for
// concurrent use after Build.
type Engine struct {
	config  Config
	key     []byte
	roles   *permission.RoleTable
	store   revocation.Store
	cache   *cache.Cache
	metrics *Metrics
	logger  *slog.Logger
}

// Validate checks a wire token end to end and returns its claims. The
// validation cache, when enabled, is probed first and only ever skips the
// decrypt/deserialize step: temporal and identity rules re-run on every
// call, and the revocation store is consulted on every call. On a miss the
// decoded claims are cached before the revocation check, so a token revoked
// moments later is found cached and proactively invalidated rather than
// never cached at all.
func (e *Engine) Validate(ctx context.Context, tok string) (*token.Claims, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricValidateLatency, time.Since(start))
		}()
	}

	claims, cached := e.cachedClaims(tok)
	if !cached {
		decoded, _, err := token.Decode(tok, e.key)
		if err != nil {
			e.metricInc(MetricValidateFailure)
			return nil, err
		}
		if err := decoded.CheckRequired(); err != nil {
			e.metricInc(MetricValidateFailure)
			return nil, err
		}
		claims = decoded
	}

	if err := claims.Validate(e.validateOptions()); err != nil {
		e.metricInc(MetricValidateFailure)
		if cached {
			// Mostly expiry outliving the cache TTL ordering; drop it.
			e.cache.Invalidate(tok)
		}
		return nil, err
	}

	if !cached && e.cache != nil {
		e.cache.Set(tok, claims)
	}

	if claims.TokenID != "" {
		revoked, err := e.store.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			e.metricInc(MetricValidateFailure)
			return nil, err
		}
		if revoked {
			return nil, e.rejectRevoked(tok, "token id revoked", "jti", claims.TokenID)
		}
	}

	revoked, err := e.store.IsSubjectRevoked(ctx, claims.Subject)
	if err != nil {
		e.metricInc(MetricValidateFailure)
		return nil, err
	}
	if revoked {
		return nil, e.rejectRevoked(tok, "subject revoked", "subject", claims.Subject)
	}

	e.metricInc(MetricValidateSuccess)
	return claims.Clone(), nil
}

func (e *Engine) cachedClaims(tok string) (*token.Claims, bool) {
	if e.cache == nil {
		return nil, false
	}

	claims, ok := e.cache.Get(tok)
	if ok {
		e.metricInc(MetricCacheHit)
		return claims, true
	}
	e.metricInc(MetricCacheMiss)
	return nil, false
}

func (e *Engine) validateOptions() token.ValidateOptions {
	return token.ValidateOptions{
		ClockSkew:   e.config.ClockSkew,
		SkipExpiry:  !e.config.ValidateExpiry,
		MinIssuedAt: e.config.MinIssuedAt,
		Audience:    e.config.Audience,
		Issuer:      e.config.Issuer,
	}
}

func (e *Engine) rejectRevoked(tok, reason, field, value string) error {
	if e.cache != nil {
		e.cache.Invalidate(tok)
	}
	e.metricInc(MetricValidateRevoked)
	e.logger.Debug("token rejected", "reason", reason, field, value)
	return ErrTokenRevoked
}

// RevokeToken marks a token ID revoked until expiresAt, typically the
// token's own expiry. Cached validations of that token are invalidated on
// their next Validate call.
func (e *Engine) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if err := e.store.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}
	e.logger.Info("token revoked", "jti", tokenID, "until", expiresAt)
	return nil
}

// RevokeSubject revokes every token of a subject until ReinstateSubject.
// The whole validation cache is purged: cache keys are token strings, so
// the affected entries cannot be found by subject alone.
func (e *Engine) RevokeSubject(ctx context.Context, subjectID string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if err := e.store.RevokeSubject(ctx, subjectID); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Purge()
	}
	e.logger.Info("subject revoked", "subject", subjectID)
	return nil
}

// ReinstateSubject reverses RevokeSubject.
func (e *Engine) ReinstateSubject(ctx context.Context, subjectID string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if err := e.store.ReinstateSubject(ctx, subjectID); err != nil {
		return err
	}
	e.logger.Info("subject reinstated", "subject", subjectID)
	return nil
}

// Cleanup prunes expired token-level revocations once. The embedding
// application owns the schedule; see StartCleanup for a ready-made loop.
func (e *Engine) Cleanup(ctx context.Context) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if err := e.store.Cleanup(ctx); err != nil {
		return err
	}
	e.metricInc(MetricRevocationCleanup)
	return nil
}

// StartCleanup runs Cleanup on a ticker until ctx is done or the returned
// stop function is called. Interval 0 falls back to the configured
// CleanupInterval. The goroutine is owned by the caller's lifecycle, not
// by the engine: there is no ambient scheduler.
func (e *Engine) StartCleanup(ctx context.Context, interval time.Duration) (stop func()) {
	if e == nil || e.store == nil {
		return func() {}
	}
	if interval <= 0 {
		interval = e.config.Revocation.CleanupInterval
	}
	if interval <= 0 {
		interval = time.Minute
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if err := e.Cleanup(ctx); err != nil && !errors.Is(err, context.Canceled) {
					e.logger.Warn("revocation cleanup failed", "error", err)
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// RevocationStore exposes the configured backend, for callers that manage
// revocation state out of band.
func (e *Engine) RevocationStore() revocation.Store {
	if e == nil {
		return nil
	}
	return e.store
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}
