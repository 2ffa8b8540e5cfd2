package reorder_test

import (
	"context"
	"math/rand/v2"
	"os"
	"slices"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/fridaygt/fridaygt/common/clients"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/google/uuid"
)

// Configuration from environment
var (
	apiURL      = getEnv("FRIDAYGT_API", "http://localhost:8080")
	perfUser    = getEnv("PERF_USER", "")
	perfRace    = getEnv("PERF_RACE", "")
	rosterSize  = getEnvInt("PERF_ROSTER_SIZE", 16)
	concurrency = getEnvInt("PERF_CONCURRENCY", 8)
)

// BenchmarkReorderMemStore measures validation plus the atomic apply in process
//
// Usage:
//
//	PERF_ROSTER_SIZE=32 go test -bench=BenchmarkReorderMemStore ./perf_tests/reorder
func BenchmarkReorderMemStore(b *testing.B) {
	store := ordering.NewMemStore()
	parent := uuid.New()
	ids := make([]uuid.UUID, rosterSize)
	for i := range ids {
		ids[i] = store.Append(parent).ID
	}
	actor := uuid.New()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		perm := slices.Clone(ids)
		rand.Shuffle(len(perm), func(a, c int) { perm[a], perm[c] = perm[c], perm[a] })
		if err := ordering.Reorder(ctx, store, parent, perm, actor); err != nil {
			b.Fatalf("reorder: %v", err)
		}
	}
}

// BenchmarkReorderMemStoreContended runs reorders of one parent from many goroutines
func BenchmarkReorderMemStoreContended(b *testing.B) {
	store := ordering.NewMemStore()
	parent := uuid.New()
	ids := make([]uuid.UUID, rosterSize)
	for i := range ids {
		ids[i] = store.Append(parent).ID
	}
	ctx := context.Background()

	b.SetParallelism(concurrency)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		actor := uuid.New()
		for pb.Next() {
			perm := slices.Clone(ids)
			rand.Shuffle(len(perm), func(a, c int) { perm[a], perm[c] = perm[c], perm[a] })
			if err := ordering.Reorder(ctx, store, parent, perm, actor); err != nil {
				b.Errorf("reorder: %v", err)
				return
			}
		}
	})
}

// BenchmarkReorderAPI drives PATCH /api/races/:raceId/members/reorder on a
// running server and reports latency percentiles.
//
// Usage:
//
//	PERF_USER=<admin id> PERF_RACE=<race id> go test -bench=BenchmarkReorderAPI -benchtime=2000x ./perf_tests/reorder
func BenchmarkReorderAPI(b *testing.B) {
	if perfUser == "" || perfRace == "" {
		b.Skip("PERF_USER and PERF_RACE not set")
	}
	raceID, err := uuid.Parse(perfRace)
	if err != nil {
		b.Fatalf("PERF_RACE: %v", err)
	}

	api := clients.NewAPIClient(apiURL, 10*time.Second, logger.Discard())
	ctx := clients.WithUserID(context.Background(), perfUser)

	members, err := api.ListMembers(ctx, raceID)
	if err != nil {
		b.Skipf("server not reachable: %v", err)
	}
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	var (
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, b.N)
		failures  int
	)

	b.SetParallelism(concurrency)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			perm := slices.Clone(ids)
			rand.Shuffle(len(perm), func(a, c int) { perm[a], perm[c] = perm[c], perm[a] })

			start := time.Now()
			_, err := api.ReorderMembers(ctx, raceID, perm)
			took := time.Since(start)

			mu.Lock()
			latencies = append(latencies, took)
			if err != nil {
				failures++
			}
			mu.Unlock()
		}
	})
	b.StopTimer()

	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	b.ReportMetric(float64(percentile(latencies, 50).Microseconds()), "p50_us")
	b.ReportMetric(float64(percentile(latencies, 95).Microseconds()), "p95_us")
	b.ReportMetric(float64(percentile(latencies, 99).Microseconds()), "p99_us")
	b.ReportMetric(float64(failures), "failures")
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
