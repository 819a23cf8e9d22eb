package goSeal

import (
	"errors"
	"time"
)

// Config carries engine-wide policy. Zero values are filled by
// DefaultConfig; a Config is treated as immutable after Build.
type Config struct {
	// Issuer, when non-empty, is stamped on issued tokens and required of
	// validated ones.
	Issuer string
	// Audience, when non-empty, must be a member of every validated
	// token's audience claim.
	Audience string
	// ClockSkew widens expiry and not-before boundaries during validation
	// to absorb clock drift between issuer and validator.
	ClockSkew time.Duration
	// ValidateExpiry controls whether the expiry rule runs during
	// Validate. On by default; disable only for offline inspection tools.
	ValidateExpiry bool
	// MinIssuedAt, when non-zero, rejects tokens issued before this unix
	// timestamp. Raise it after a key rotation to fence off old tokens.
	MinIssuedAt int64

	Cache      CacheConfig
	Revocation RevocationConfig
	Metrics    MetricsConfig
}

// CacheConfig bounds the validation cache.
type CacheConfig struct {
	Enabled bool
	// Size is the maximum number of resident token entries.
	Size int
	// TTL is how long a cached decode stays usable after insertion.
	TTL time.Duration
}

// RevocationConfig tunes the revocation backend.
type RevocationConfig struct {
	// RedisPrefix namespaces RedisStore keys. Ignored by MemoryStore.
	RedisPrefix string
	// CleanupInterval is the period StartCleanup sweeps expired
	// token-level revocations with.
	CleanupInterval time.Duration
}

// MetricsConfig controls the engine's internal counters.
type MetricsConfig struct {
	Enabled bool
	// EnableLatencyHistograms additionally buckets Validate latency.
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline policy: expiry enforced, one minute of
// clock skew, a 10k-entry cache with a 30-second TTL, and metrics off.
func DefaultConfig() Config {
	return Config{
		ClockSkew:      time.Minute,
		ValidateExpiry: true,
		Cache: CacheConfig{
			Enabled: true,
			Size:    10000,
			TTL:     30 * time.Second,
		},
		Revocation: RevocationConfig{
			CleanupInterval: time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate rejects configurations the engine cannot honor.
func (c *Config) Validate() error {
	if c.ClockSkew < 0 {
		return errors.New("ClockSkew must be >= 0")
	}
	if c.Cache.Enabled && c.Cache.Size <= 0 {
		return errors.New("Cache Size must be > 0 when the cache is enabled")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return errors.New("Cache TTL must be > 0 when the cache is enabled")
	}
	if c.Revocation.CleanupInterval < 0 {
		return errors.New("Revocation CleanupInterval must be >= 0")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// No reference-typed fields today; a value copy is a deep copy.
	return cfg
}
