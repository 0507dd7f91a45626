// Package metrics provides execution-time aggregation for the orchestrator.
// Durations are tracked in an HDR histogram so the final report can expose
// percentiles without keeping every sample.
package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Trend resolution: one microsecond up to one hour, three significant figures.
const (
	trendMin     = 1
	trendMax     = int64(time.Hour / time.Microsecond)
	trendSigFigs = 3
)

// Trend aggregates a stream of durations and answers percentile queries.
type Trend struct {
	mu sync.Mutex
	h  *hdrhistogram.Histogram
}

// NewTrend creates an empty trend.
func NewTrend() *Trend {
	return &Trend{h: hdrhistogram.New(trendMin, trendMax, trendSigFigs)}
}

// Record adds one duration sample. Values outside the histogram range are
// clamped rather than dropped.
func (t *Trend) Record(d time.Duration) {
	v := int64(d / time.Microsecond)
	if v < trendMin {
		v = trendMin
	}
	if v > trendMax {
		v = trendMax
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	// RecordValue only fails for out-of-range values, which are clamped above.
	_ = t.h.RecordValue(v)
}

// Count returns the number of recorded samples.
func (t *Trend) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.h.TotalCount()
}

// Mean returns the mean sample duration.
func (t *Trend) Mean() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.h.Mean()) * time.Microsecond
}

// Max returns the largest recorded duration.
func (t *Trend) Max() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.h.Max()) * time.Microsecond
}

// Percentile returns the duration at the given percentile (0-100).
func (t *Trend) Percentile(p float64) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.h.ValueAtQuantile(p)) * time.Microsecond
}
