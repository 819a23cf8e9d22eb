package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSeal "github.com/MrEthical07/goSeal"
	"github.com/MrEthical07/goSeal/seal"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		tokens      = flag.Int("tokens", 100000, "number of tokens to issue")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "validations per phase (cached + uncached)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "lt", "revocation key prefix")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	key, err := seal.NewKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "key generation failed: %v\n", err)
		os.Exit(1)
	}

	cfg := goSeal.DefaultConfig()
	cfg.Issuer = "goseal-loadtest"
	cfg.Cache.Size = *tokens
	cfg.Cache.TTL = time.Hour
	cfg.Revocation.RedisPrefix = *prefix
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	engine, err := goSeal.New().
		WithConfig(cfg).
		WithKey(key).
		WithRedis(client).
		WithRoles(map[string][]string{
			"member": {"posts:read", "comments:read"},
			"editor": {"posts:*", "comments:*"},
		}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("issuing %d tokens...\n", *tokens)
	wire := make([]string, *tokens)
	startIssue := time.Now()
	for i := 0; i < *tokens; i++ {
		role := "member"
		if i%10 == 0 {
			role = "editor"
		}
		issued, err := engine.CreateToken(fmt.Sprintf("subject-%d", i)).
			WithTTL(24 * time.Hour).
			WithRoles(role).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue failed: %v\n", err)
			os.Exit(1)
		}
		wire[i] = issued.Token
	}
	fmt.Printf("issued in %s\n", time.Since(startIssue).Round(time.Millisecond))

	// First phase populates the cache; second phase measures the hit path.
	uncachedStats := runValidatePhase(ctx, engine, wire, *ops, *concurrency)
	cachedStats := runValidatePhase(ctx, engine, wire, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("validate (cold cache)", uncachedStats)
	printStats("validate (warm cache)", cachedStats)
	printSnapshot(engine.MetricsSnapshot())
}

func runValidatePhase(ctx context.Context, engine *goSeal.Engine, wire []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(wire))
				t0 := time.Now()
				_, err := engine.Validate(ctx, wire[idx])
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func printSnapshot(s goSeal.MetricsSnapshot) {
	fmt.Printf("engine counters: issued=%d validated=%d failed=%d revoked=%d cache hit=%d miss=%d\n",
		s.Counters[goSeal.MetricIssueSuccess],
		s.Counters[goSeal.MetricValidateSuccess],
		s.Counters[goSeal.MetricValidateFailure],
		s.Counters[goSeal.MetricValidateRevoked],
		s.Counters[goSeal.MetricCacheHit],
		s.Counters[goSeal.MetricCacheMiss],
	)
	if buckets, ok := s.Histograms[goSeal.MetricValidateLatency]; ok {
		fmt.Printf("validate latency buckets (us: <=5 <=10 <=25 <=50 <=100 <=250 <=1000 >1000): %v\n", buckets)
	}
}
