package jobqueue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

const isolatedJobQueueTestRedisDB = 14

// waitForCondition polls until condition holds or the timeout passes.
func waitForCondition(condition func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// resolveTestRedis probes the usual compose and local endpoints and skips the
// test when none answers.
func resolveTestRedis(t *testing.T) (addr, password string) {
	t.Helper()

	hosts := dedupe(env.GetEnv("CACHE_HOST", ""), "cache", "payfox-cache", "localhost", "127.0.0.1")
	ports := dedupe(env.GetEnv("CACHE_PORT", "6379"), "6379")
	passwords := append(dedupe(env.GetEnv("CACHE_PASSWORD", ""), "payfox"), "")

	var lastErr error
	for _, host := range hosts {
		for _, port := range ports {
			for _, pw := range passwords {
				candidate := fmt.Sprintf("%s:%s", host, port)
				if lastErr = pingRedis(candidate, pw, 0, time.Second); lastErr == nil {
					return candidate, pw
				}
			}
		}
	}

	t.Skipf("Skipping Redis-dependent test: no reachable Redis endpoint (%v)", lastErr)
	return "", ""
}

func pingRedis(addr, password string, db int, timeout time.Duration) error {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

// dedupe drops empty and repeated values, keeping order.
func dedupe(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func newIsolatedRedisClient(t *testing.T, db int) *redis.Client {
	t.Helper()

	addr, password := resolveTestRedis(t)
	if err := pingRedis(addr, password, db, 2*time.Second); err != nil {
		t.Skipf("Skipping Redis-dependent test: isolated DB ping failed (%v)", err)
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Fatalf("failed to flush isolated redis db %d: %v", db, err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
