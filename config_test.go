package goSeal

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig must validate: %v", err)
	}
	if !cfg.ValidateExpiry {
		t.Fatal("expiry enforcement must default on")
	}
	if !cfg.Cache.Enabled {
		t.Fatal("cache must default on")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative skew", func(c *Config) { c.ClockSkew = -time.Second }},
		{"zero cache size", func(c *Config) { c.Cache.Size = 0 }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"negative cleanup interval", func(c *Config) { c.Revocation.CleanupInterval = -time.Second }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected Validate to fail", tc.name)
		}
	}

	// A disabled cache ignores its sizing fields.
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Size = 0
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled cache must not require sizing: %v", err)
	}
}
