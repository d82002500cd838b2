package runner

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// DefaultMemorySampleInterval is used when RunOptions leaves the interval unset.
const DefaultMemorySampleInterval = 50 * time.Millisecond

// MemorySampler returns the current resident set size in bytes.
type MemorySampler func() (uint64, error)

// CPUClock returns the process CPU time (user + system) in milliseconds.
type CPUClock func() float64

// NewProcessMemorySampler returns a sampler reading this process's RSS. When
// the process handle cannot be opened it falls back to the Go runtime's
// view of memory obtained from the OS.
func NewProcessMemorySampler() MemorySampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return runtimeMemory
	}

	return func() (uint64, error) {
		info, err := proc.MemoryInfo()
		if err != nil {
			return runtimeMemory()
		}
		return info.RSS, nil
	}
}

func runtimeMemory() (uint64, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.Sys, nil
}

// peakTracker tracks the peak of a MemorySampler, reading it no more often
// than every interval.
type peakTracker struct {
	sampler  MemorySampler
	interval time.Duration
	last     time.Time
	peak     uint64
}

func newPeakTracker(sampler MemorySampler, interval time.Duration) *peakTracker {
	if interval <= 0 {
		interval = DefaultMemorySampleInterval
	}
	return &peakTracker{sampler: sampler, interval: interval}
}

func (s *peakTracker) maybeSample(now time.Time) {
	if now.Sub(s.last) < s.interval {
		return
	}
	s.sample(now)
}

func (s *peakTracker) sample(now time.Time) {
	s.last = now
	if s.sampler == nil {
		return
	}
	rss, err := s.sampler()
	if err != nil {
		return
	}
	if rss > s.peak {
		s.peak = rss
	}
}
