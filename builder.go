package goSeal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrEthical07/goSeal/internal/cache"
	"github.com/MrEthical07/goSeal/permission"
	"github.com/MrEthical07/goSeal/revocation"
	"github.com/MrEthical07/goSeal/seal"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine. Configure it with the With* methods and call
// Build once; a Builder is not safe for concurrent use and cannot be reused.
type Builder struct {
	config Config
	key    []byte
	roles  map[string][]string
	store  revocation.Store
	redis  redis.UniversalClient
	logger *slog.Logger

	built bool
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the engine configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithKey supplies the 32-byte symmetric key. Generate one with
// [seal.NewKey] if the application does not manage its own key material.
func (b *Builder) WithKey(key []byte) *Builder {
	b.key = key
	return b
}

// WithRoles supplies the role table: role name to permission patterns.
// Every pattern is format-checked during Build.
func (b *Builder) WithRoles(roles map[string][]string) *Builder {
	b.roles = roles
	return b
}

// WithRevocationStore supplies a custom revocation backend. It takes
// precedence over WithRedis.
func (b *Builder) WithRevocationStore(store revocation.Store) *Builder {
	b.store = store
	return b
}

// WithRedis selects a Redis-backed revocation store on the given client,
// so revocations are shared across processes.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger supplies a structured logger. Without one the engine is silent.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles the internal counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Validate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Engine. The default
// revocation backend is an in-process MemoryStore.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(b.key) != seal.KeySize {
		return nil, fmt.Errorf("%w: engine key must be %d bytes", ErrCrypto, seal.KeySize)
	}

	roles := permission.NewRoleTable()
	for name, patterns := range b.roles {
		if err := roles.Register(name, patterns); err != nil {
			return nil, err
		}
	}
	roles.Freeze()

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = revocation.NewRedisStore(b.redis, cfg.Revocation.RedisPrefix)
		} else {
			store = revocation.NewMemoryStore()
		}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := &Engine{
		config:  cfg,
		key:     append([]byte(nil), b.key...),
		roles:   roles,
		store:   store,
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
	}

	if cfg.Cache.Enabled {
		engine.cache = cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	}

	b.built = true
	return engine, nil
}
