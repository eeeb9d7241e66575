package draft

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at      time.Time
	latency time.Duration
	failed  bool
}

// StatsSnapshot aggregates the samples of the current window.
type StatsSnapshot struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// LLMStats keeps generation latencies for a rolling window.
type LLMStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLLMStats(window time.Duration) *LLMStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LLMStats{
		samples: make([]sample, 0, 64),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one call. Failed calls count towards Errors and latency alike.
func (s *LLMStats) Record(latency time.Duration, err error) {
	latency = max(latency, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, latency: latency, failed: err != nil})
}

func (s *LLMStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	var snap StatsSnapshot
	ms := make([]int64, len(s.samples))
	var sum int64
	for i, sm := range s.samples {
		ms[i] = sm.latency.Milliseconds()
		sum += ms[i]
		if sm.failed {
			snap.Errors++
		}
	}
	slices.Sort(ms)

	snap.Count = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(sum) / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

func (s *LLMStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool { return sm.at.Before(cutoff) })
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := float64(len(sorted)-1) * pct / 100
	lo := int(idx)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	w := idx - float64(lo)
	return float64(sorted[lo]) + float64(sorted[lo+1]-sorted[lo])*w
}
