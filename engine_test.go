package goSeal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSeal/revocation"
	"github.com/MrEthical07/goSeal/seal"
	"github.com/MrEthical07/goSeal/token"
)

func testRoles() map[string][]string {
	return map[string][]string{
		"user":   {"posts:read", "comments:read"},
		"editor": {"posts:*", "comments:read"},
	}
}

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()

	key, err := seal.NewKey()
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ClockSkew = 0
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := New().
		WithConfig(cfg).
		WithKey(key).
		WithRoles(testRoles()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine
}

func TestIssueValidateRoundTrip(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil)

	issued, err := engine.CreateToken("user-1").
		WithTTL(time.Hour).
		WithRoles("editor").
		WithPermissions("media:upload").
		WithClaim("tenant", "acme").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	claims, err := engine.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if claims.Subject != "user-1" {
		t.Fatalf("wrong subject %q", claims.Subject)
	}
	if claims.TokenID == "" {
		t.Fatal("expected a generated token id")
	}
	if claims.Custom["tenant"] != "acme" {
		t.Fatalf("custom claim lost: %+v", claims.Custom)
	}

	// Role expansion first, explicit grants appended.
	want := []string{"posts:*", "comments:read", "media:upload"}
	if len(claims.Permissions) != len(want) {
		t.Fatalf("permissions = %v, want %v", claims.Permissions, want)
	}
	for i, p := range want {
		if claims.Permissions[i] != p {
			t.Fatalf("permissions = %v, want %v", claims.Permissions, want)
		}
	}
	if !claims.HasPermission("posts:delete") {
		t.Fatal("posts:* must grant posts:delete")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil)

	for _, tok := range []string{"", "garbage", "v1.seal.!!!", "v1.seal.AAAA.BBBB.CCCC"} {
		if _, err := engine.Validate(ctx, tok); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Validate(%q): expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestValidateForeignKey(t *testing.T) {
	ctx := context.Background()
	issuer := newTestEngine(t, nil)
	validator := newTestEngine(t, nil) // different key

	issued, err := issuer.CreateToken("user-1").WithTTL(time.Hour).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := validator.Validate(ctx, issued.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid across keys, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil)

	issued, err := engine.CreateToken("user-1").
		WithExpiry(time.Now().Add(-time.Minute)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := engine.Validate(ctx, issued.Token); !errors.Is(err, token.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidateClockSkewAbsorbsExpiry(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, func(cfg *Config) {
		cfg.ClockSkew = time.Minute
	})

	issued, err := engine.CreateToken("user-1").
		WithExpiry(time.Now().Add(-time.Second)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := engine.Validate(ctx, issued.Token); err != nil {
		t.Fatalf("skew should absorb a just-expired token: %v", err)
	}
}

func TestValidateNotBefore(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil)

	issued, err := engine.CreateToken("user-1").
		WithTTL(time.Hour).
		WithNotBefore(time.Now().Add(time.Hour)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := engine.Validate(ctx, issued.Token); !errors.Is(err, token.ErrNotYetValid) {
		t.Fatalf("expected ErrNotYetValid, got %v", err)
	}
}

func TestValidateIssuerAudience(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, func(cfg *Config) {
		cfg.Issuer = "api.internal"
		cfg.Audience = "web"
	})

	issued, err := engine.CreateToken("user-1").WithTTL(time.Hour).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if issued.Claims.Issuer != "api.internal" {
		t.Fatalf("issuer not defaulted from config: %q", issued.Claims.Issuer)
	}

	if _, err := engine.Validate(ctx, issued.Token); err != nil {
		t.Fatalf("self-issued token rejected: %v", err)
	}

	spoofed, err := engine.CreateToken("user-1").
		WithTTL(time.Hour).
		WithIssuer("someone-else").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := engine.Validate(ctx, spoofed.Token); !errors.Is(err, token.ErrIssuer) {
		t.Fatalf("expected ErrIssuer, got %v", err)
	}

	wrongAud, err := engine.CreateToken("user-1").
		WithTTL(time.Hour).
		WithAudience("cli").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := engine.Validate(ctx, wrongAud.Token); !errors.Is(err, token.ErrAudience) {
		t.Fatalf("expected ErrAudience, got %v", err)
	}
}

func TestRevocationPrecedenceOverCache(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, func(cfg *Config) {
		cfg.Metrics.Enabled = true
	})

	issued, err := engine.CreateToken("user-1").
		WithTTL(time.Hour).
		WithTokenID("t1").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// First validation populates the cache.
	if _, err := engine.Validate(ctx, issued.Token); err != nil {
		t.Fatalf("first Validate failed: %v", err)
	}

	if err := engine.RevokeToken(ctx, "t1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	// The cached entry must not shield the token from revocation.
	if _, err := engine.Validate(ctx, issued.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricCacheHit] == 0 {
		t.Fatal("second Validate should have hit the cache before the revocation check")
	}
	if snap.Counters[MetricValidateRevoked] != 1 {
		t.Fatalf("expected one revoked rejection, got %d", snap.Counters[MetricValidateRevoked])
	}
}

func TestSubjectRevocationAndReinstate(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil)

	issued, err := engine.CreateToken("user-1").WithTTL(time.Hour).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := engine.Validate(ctx, issued.Token); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if err := engine.RevokeSubject(ctx, "user-1"); err != nil {
		t.Fatalf("RevokeSubject failed: %v", err)
	}
	if _, err := engine.Validate(ctx, issued.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	if err := engine.ReinstateSubject(ctx, "user-1"); err != nil {
		t.Fatalf("ReinstateSubject failed: %v", err)
	}
	if _, err := engine.Validate(ctx, issued.Token); err != nil {
		t.Fatalf("reinstated subject rejected: %v", err)
	}
}

func TestCacheSavesDecodeOnly(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, func(cfg *Config) {
		cfg.Metrics.Enabled = true
	})

	issued, err := engine.CreateToken("user-1").WithTTL(time.Hour).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := engine.Validate(ctx, issued.Token); err != nil {
			t.Fatalf("Validate %d failed: %v", i, err)
		}
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricCacheMiss] != 1 {
		t.Fatalf("expected exactly one miss, got %d", snap.Counters[MetricCacheMiss])
	}
	if snap.Counters[MetricCacheHit] != 2 {
		t.Fatalf("expected two hits, got %d", snap.Counters[MetricCacheHit])
	}
	if snap.Counters[MetricValidateSuccess] != 3 {
		t.Fatalf("expected three accepted validations, got %d", snap.Counters[MetricValidateSuccess])
	}
}

func TestValidateWithCacheDisabled(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, func(cfg *Config) {
		cfg.Cache.Enabled = false
	})

	issued, err := engine.CreateToken("user-1").WithTTL(time.Hour).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := engine.Validate(ctx, issued.Token); err != nil {
			t.Fatalf("Validate %d failed: %v", i, err)
		}
	}
}

func TestValidateReturnsIndependentClaims(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, nil)

	issued, err := engine.CreateToken("user-1").
		WithTTL(time.Hour).
		WithRoles("user").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	first, err := engine.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	first.Permissions[0] = "mutated:op"

	second, err := engine.Validate(ctx, issued.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if second.Permissions[0] != "posts:read" {
		t.Fatalf("cached claims were mutated through a returned copy: %v", second.Permissions)
	}
}

func TestStartCleanup(t *testing.T) {
	ctx := context.Background()
	store := revocation.NewMemoryStore()

	key, err := seal.NewKey()
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	engine, err := New().
		WithKey(key).
		WithRevocationStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := store.Revoke(ctx, "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	stop := engine.StartCleanup(ctx, 10*time.Millisecond)
	defer stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if tokens, _ := store.Len(); tokens == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cleanup loop never pruned the stale entry")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// slowStore delays the subject lookup so a Validate call takes a measurable
// amount of wall time.
type slowStore struct {
	revocation.Store
	delay time.Duration
}

func (s slowStore) IsSubjectRevoked(ctx context.Context, subjectID string) (bool, error) {
	time.Sleep(s.delay)
	return s.Store.IsSubjectRevoked(ctx, subjectID)
}

func TestValidateLatencyHistogramRecordsWallTime(t *testing.T) {
	ctx := context.Background()

	key, err := seal.NewKey()
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	engine, err := New().
		WithKey(key).
		WithRevocationStore(slowStore{Store: revocation.NewMemoryStore(), delay: 5 * time.Millisecond}).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	issued, err := engine.CreateToken("user-1").WithTTL(time.Hour).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := engine.Validate(ctx, issued.Token); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	buckets := engine.MetricsSnapshot().Histograms[MetricValidateLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %v", histBucketCount, buckets)
	}
	// The 5ms store delay puts the call far past every microsecond bound;
	// the observation must land in the overflow bucket, not the first one.
	if buckets[0] != 0 {
		t.Fatalf("5ms Validate recorded in the <=5us bucket: %v", buckets)
	}
	if buckets[histBucketCount-1] != 1 {
		t.Fatalf("expected the observation in the overflow bucket, got %v", buckets)
	}
}

func TestEngineNotReady(t *testing.T) {
	var engine *Engine

	if _, err := engine.Validate(context.Background(), "x"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if err := engine.RevokeToken(context.Background(), "t", time.Now()); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}

	stop := engine.StartCleanup(context.Background(), time.Millisecond)
	if stop == nil {
		t.Fatal("expected a no-op stop func from a nil engine")
	}
	stop()
}
