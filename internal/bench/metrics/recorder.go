// Package metrics aggregates call latencies into an HDR histogram while a
// case is running.
//
// The recorder feeds the live progress display and the HDR summary in
// exported reports. The exact statistics reported for a case are computed
// from the raw samples by the stats package; HDR percentiles are bucketed
// to three significant figures.
package metrics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder collects latencies using an HDR histogram.
//
// # Thread Safety
//
// Recorder is safe for concurrent use. The counter is atomic, the
// histogram is mutex protected, and the optional emitter runs in its own
// goroutine.
type Recorder struct {
	// Range: 1 nanosecond to 1 hour, 3 significant figures
	hist   *hdrhistogram.Histogram
	histMu sync.Mutex

	count atomic.Int64

	startMu   sync.RWMutex
	startTime time.Time

	// Background emitter
	emitterCancel context.CancelFunc
	emitterWg     sync.WaitGroup
	emitterMu     sync.Mutex

	config RecorderConfig
}

// RecorderConfig contains configuration for the recorder.
type RecorderConfig struct {
	// EmitInterval is the interval between emitted snapshots (default: 250ms)
	EmitInterval time.Duration

	// HistogramMin is the minimum recordable value in nanoseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in nanoseconds (default: 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultRecorderConfig returns the default configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		EmitInterval:     250 * time.Millisecond,
		HistogramMin:     1,
		HistogramMax:     int64(time.Hour),
		HistogramSigFigs: 3,
	}
}

// NewRecorder creates a recorder with default configuration.
func NewRecorder() *Recorder {
	return NewRecorderWithConfig(DefaultRecorderConfig())
}

// NewRecorderWithConfig creates a recorder with custom configuration.
// Zero fields fall back to their defaults.
func NewRecorderWithConfig(config RecorderConfig) *Recorder {
	def := DefaultRecorderConfig()
	if config.EmitInterval <= 0 {
		config.EmitInterval = def.EmitInterval
	}
	if config.HistogramMin <= 0 {
		config.HistogramMin = def.HistogramMin
	}
	if config.HistogramMax <= config.HistogramMin {
		config.HistogramMax = def.HistogramMax
	}
	if config.HistogramSigFigs <= 0 {
		config.HistogramSigFigs = def.HistogramSigFigs
	}

	return &Recorder{
		hist:      hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		startTime: time.Now(),
		config:    config,
	}
}

// Observe records one call latency.
func (r *Recorder) Observe(latency time.Duration) {
	nanos := int64(latency)

	// Clamp to valid range
	if nanos < r.config.HistogramMin {
		nanos = r.config.HistogramMin
	}
	if nanos > r.config.HistogramMax {
		nanos = r.config.HistogramMax
	}

	// HDR histogram RecordValue is NOT thread-safe
	r.histMu.Lock()
	_ = r.hist.RecordValue(nanos)
	r.histMu.Unlock()

	r.count.Add(1)
}

// RecordMillis records a batch of latencies given in milliseconds, taking
// the lock once. It fills a recorder after a run when no live view is needed.
func (r *Recorder) RecordMillis(latencies []float64) {
	r.histMu.Lock()
	for _, ms := range latencies {
		nanos := int64(ms * float64(time.Millisecond))
		if nanos < r.config.HistogramMin {
			nanos = r.config.HistogramMin
		}
		if nanos > r.config.HistogramMax {
			nanos = r.config.HistogramMax
		}
		_ = r.hist.RecordValue(nanos)
	}
	r.histMu.Unlock()

	r.count.Add(int64(len(latencies)))
}

// Count returns the number of recorded latencies.
func (r *Recorder) Count() int64 {
	return r.count.Load()
}

// Snapshot returns a point-in-time view of the recorded latencies.
func (r *Recorder) Snapshot() Snapshot {
	r.histMu.Lock()
	latency := LatencyStats{
		Min:    time.Duration(r.hist.Min()),
		Max:    time.Duration(r.hist.Max()),
		Mean:   time.Duration(r.hist.Mean()),
		StdDev: time.Duration(r.hist.StdDev()),
		P50:    time.Duration(r.hist.ValueAtQuantile(50)),
		P90:    time.Duration(r.hist.ValueAtQuantile(90)),
		P95:    time.Duration(r.hist.ValueAtQuantile(95)),
		P99:    time.Duration(r.hist.ValueAtQuantile(99)),
		Count:  r.hist.TotalCount(),
	}
	r.histMu.Unlock()

	r.startMu.RLock()
	start := r.startTime
	r.startMu.RUnlock()

	elapsed := time.Since(start)
	count := r.count.Load()

	opsPerSec := 0.0
	if elapsed > 0 {
		opsPerSec = float64(count) / elapsed.Seconds()
	}

	return Snapshot{
		Count:     count,
		Latency:   latency,
		OpsPerSec: opsPerSec,
		Elapsed:   elapsed,
		StartTime: start,
		Timestamp: time.Now(),
	}
}

// Start begins emitting snapshots to fn every EmitInterval until Stop is
// called. Calling Start while an emitter is running replaces it.
func (r *Recorder) Start(fn func(Snapshot)) {
	r.Stop()

	r.emitterMu.Lock()
	defer r.emitterMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	r.emitterCancel = cancel

	r.emitterWg.Add(1)
	go r.runEmitter(ctx, fn)
}

func (r *Recorder) runEmitter(ctx context.Context, fn func(Snapshot)) {
	defer r.emitterWg.Done()

	ticker := time.NewTicker(r.config.EmitInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(r.Snapshot())
		}
	}
}

// Stop stops the background emitter, if any, and waits for it to exit.
func (r *Recorder) Stop() {
	r.emitterMu.Lock()
	cancel := r.emitterCancel
	r.emitterCancel = nil
	r.emitterMu.Unlock()

	if cancel != nil {
		cancel()
		r.emitterWg.Wait()
	}
}

// Reset clears all recorded values and restarts the clock.
func (r *Recorder) Reset() {
	r.histMu.Lock()
	r.hist.Reset()
	r.histMu.Unlock()

	r.count.Store(0)

	r.startMu.Lock()
	r.startTime = time.Now()
	r.startMu.Unlock()
}

// Snapshot contains a point-in-time view of the recorder.
type Snapshot struct {
	Count     int64         `json:"count"`
	Latency   LatencyStats  `json:"latency"`
	OpsPerSec float64       `json:"opsPerSec"`
	Elapsed   time.Duration `json:"elapsed"`
	StartTime time.Time     `json:"startTime"`
	Timestamp time.Time     `json:"timestamp"`
}

// LatencyStats contains HDR latency statistics.
type LatencyStats struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}
