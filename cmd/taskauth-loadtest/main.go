// Command taskauth-loadtest drives session issue and resolve traffic against
// Redis (or an in-process miniredis) and prints latency percentiles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/taskauth"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type options struct {
	users       int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
}

func main() {
	var opts options
	flag.IntVar(&opts.users, "users", 10000, "users holding a session before the run")
	flag.IntVar(&opts.concurrency, "concurrency", 256, "concurrent workers per phase")
	flag.IntVar(&opts.ops, "ops", 200000, "operations per phase")
	flag.StringVar(&opts.redisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "redis address; miniredis when empty")
	flag.StringVar(&opts.prefix, "prefix", "lt", "key prefix for sessions and users")
	flag.Parse()

	if opts.users <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	client, stop, err := connect(opts.redisAddr)
	if err != nil {
		return err
	}
	defer stop()

	cfg := taskauth.DefaultConfig()
	cfg.JWT.Secret = []byte("loadtest-secret")
	cfg.Session.RedisPrefix = opts.prefix
	cfg.Store.UserRedisPrefix = opts.prefix + "u"
	engine, err := taskauth.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	userIDs := make([]string, opts.users)
	tokens := make([]string, opts.users)
	began := time.Now()
	for i := range userIDs {
		userIDs[i] = fmt.Sprintf("user-%d", i)
		tr := taskauth.NewMemoryTransport("")
		if _, err := engine.IssueSession(ctx, tr, userIDs[i]); err != nil {
			return fmt.Errorf("seed session for %s: %w", userIDs[i], err)
		}
		tokens[i] = tr.Token()
	}
	fmt.Printf("seeded %d sessions in %s\n", opts.users, time.Since(began).Round(time.Millisecond))

	// Reissue orphans the seeded tokens, so resolve has to run first.
	phases := []struct {
		name string
		op   func(*rand.Rand) error
	}{
		{"resolve", func(r *rand.Rand) error {
			_, err := engine.ResolveSession(ctx, taskauth.NewMemoryTransport(tokens[r.Intn(len(tokens))]))
			return err
		}},
		{"reissue", func(r *rand.Rand) error {
			_, err := engine.IssueSession(ctx, nil, userIDs[r.Intn(len(userIDs))])
			return err
		}},
	}
	results := make([]result, len(phases))
	for i, p := range phases {
		results[i] = runPhase(opts.ops, opts.concurrency, p.op)
	}

	fmt.Println("---- results ----")
	for i, p := range phases {
		fmt.Printf("%-8s %s\n", p.name, results[i])
	}
	snap := engine.MetricsSnapshot()
	fmt.Printf("sessions: created=%d replaced=%d resolved=%d rejected=%d\n",
		snap.Counters[taskauth.MetricSessionCreated],
		snap.Counters[taskauth.MetricSessionReplaced],
		snap.Counters[taskauth.MetricSessionResolved],
		snap.Counters[taskauth.MetricSessionRejected],
	)

	pointed, err := countLivePointers(ctx, session.NewRedisStore(client, opts.prefix), userIDs)
	if err != nil {
		return err
	}
	fmt.Printf("pointers: %d/%d users hold exactly one live record\n", pointed, len(userIDs))
	if pointed != len(userIDs) {
		return fmt.Errorf("%d users lost their session pointer", len(userIDs)-pointed)
	}
	return nil
}

// countLivePointers counts users whose current-session pointer resolves to
// a stored record.
func countLivePointers(ctx context.Context, sessions *session.RedisStore, userIDs []string) (int, error) {
	n := 0
	for _, uid := range userIDs {
		sid, err := sessions.CurrentIDForUser(ctx, uid)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("read pointer for %s: %w", uid, err)
		}
		if _, err := sessions.FindByID(ctx, sid); err == nil {
			n++
		}
	}
	return n, nil
}

// connect dials addr, or starts a miniredis when addr is empty.
func connect(addr string) (redis.UniversalClient, func(), error) {
	var mr *miniredis.Miniredis
	if addr == "" {
		var err error
		if mr, err = miniredis.Run(); err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		addr = mr.Addr()
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		fmt.Printf("using redis at %s\n", addr)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	return client, func() {
		_ = client.Close()
		if mr != nil {
			mr.Close()
		}
	}, nil
}

// runPhase spreads ops calls of op over workers. Each worker keeps its own
// latency slice; they are merged once every worker has returned.
func runPhase(ops, workers int, op func(*rand.Rand) error) result {
	var (
		next     atomic.Int64
		failures atomic.Int64
		wg       sync.WaitGroup
	)
	perWorker := make([][]time.Duration, workers)

	began := time.Now()
	for w := range perWorker {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewSource(began.UnixNano() + int64(w)))
			for next.Add(1) <= int64(ops) {
				t0 := time.Now()
				if err := op(r); err != nil {
					failures.Add(1)
				}
				perWorker[w] = append(perWorker[w], time.Since(t0))
			}
		}()
	}
	wg.Wait()

	return newResult(time.Since(began), slices.Concat(perWorker...), failures.Load())
}

type result struct {
	elapsed  time.Duration
	samples  []time.Duration
	failures int64
}

func newResult(elapsed time.Duration, samples []time.Duration, failures int64) result {
	slices.Sort(samples)
	return result{elapsed: elapsed, samples: samples, failures: failures}
}

// quantile returns the sample at q in [0,1] from the sorted set.
func (r result) quantile(q float64) time.Duration {
	if len(r.samples) == 0 {
		return 0
	}
	idx := int(q * float64(len(r.samples)-1))
	return r.samples[idx]
}

func (r result) String() string {
	rate := 0.0
	if r.elapsed > 0 {
		rate = float64(len(r.samples)) / r.elapsed.Seconds()
	}
	return fmt.Sprintf("ops=%d failures=%d elapsed=%s ops/sec=%.0f p50=%s p95=%s p99=%s",
		len(r.samples), r.failures, r.elapsed.Round(time.Millisecond), rate,
		r.quantile(0.50).Round(time.Microsecond),
		r.quantile(0.95).Round(time.Microsecond),
		r.quantile(0.99).Round(time.Microsecond),
	)
}
