package metrics

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRecorder(t *testing.T) {
	r := NewRecorder()
	if r == nil {
		t.Fatal("NewRecorder() returned nil")
	}

	snapshot := r.Snapshot()
	if snapshot.Count != 0 {
		t.Errorf("Initial Count = %d, want 0", snapshot.Count)
	}
	if snapshot.Latency.Count != 0 {
		t.Errorf("Initial Latency.Count = %d, want 0", snapshot.Latency.Count)
	}
}

func TestRecorder_Percentiles(t *testing.T) {
	r := NewRecorder()

	for i := 1; i <= 10; i++ {
		r.Observe(time.Duration(i*10) * time.Millisecond)
	}

	snapshot := r.Snapshot()
	if snapshot.Count != 10 {
		t.Fatalf("Count = %d, want 10", snapshot.Count)
	}

	// HDR buckets to 3 significant figures
	if snapshot.Latency.P50 < 49*time.Millisecond || snapshot.Latency.P50 > 51*time.Millisecond {
		t.Errorf("P50 = %v, want ~50ms", snapshot.Latency.P50)
	}
	if snapshot.Latency.P99 < 99*time.Millisecond || snapshot.Latency.P99 > 101*time.Millisecond {
		t.Errorf("P99 = %v, want ~100ms", snapshot.Latency.P99)
	}
	if snapshot.Latency.Min < 9*time.Millisecond || snapshot.Latency.Min > 11*time.Millisecond {
		t.Errorf("Min = %v, want ~10ms", snapshot.Latency.Min)
	}
	if snapshot.OpsPerSec <= 0 {
		t.Errorf("OpsPerSec = %v, want > 0", snapshot.OpsPerSec)
	}
}

func TestRecorder_SubMicrosecond(t *testing.T) {
	r := NewRecorder()

	r.Observe(0)
	r.Observe(250 * time.Nanosecond)

	snapshot := r.Snapshot()
	if snapshot.Latency.Min != 1 {
		t.Errorf("Min = %v, want 1ns (clamped)", snapshot.Latency.Min)
	}
	if snapshot.Latency.Max < 249 || snapshot.Latency.Max > 251 {
		t.Errorf("Max = %v, want ~250ns", snapshot.Latency.Max)
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				r.Observe(time.Microsecond)
			}
		}()
	}
	wg.Wait()

	if got := r.Count(); got != 8000 {
		t.Errorf("Count() = %d, want 8000", got)
	}
	if got := r.Snapshot().Latency.Count; got != 8000 {
		t.Errorf("Latency.Count = %d, want 8000", got)
	}
}

func TestRecorder_Emitter(t *testing.T) {
	r := NewRecorderWithConfig(RecorderConfig{EmitInterval: 5 * time.Millisecond})

	var emitted atomic.Int32
	r.Start(func(Snapshot) { emitted.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for emitted.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	r.Stop()

	if emitted.Load() < 2 {
		t.Fatalf("emitted %d snapshots, want at least 2", emitted.Load())
	}

	after := emitted.Load()
	time.Sleep(20 * time.Millisecond)
	if emitted.Load() != after {
		t.Error("emitter kept running after Stop()")
	}

	// Stop is idempotent
	r.Stop()
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	r.Observe(time.Millisecond)
	r.Reset()

	snapshot := r.Snapshot()
	if snapshot.Count != 0 || snapshot.Latency.Count != 0 {
		t.Errorf("after Reset() Count = %d, Latency.Count = %d, want 0", snapshot.Count, snapshot.Latency.Count)
	}
}

func TestRecorder_RecordMillis(t *testing.T) {
	r := NewRecorder()
	r.RecordMillis([]float64{1, 2, 3, 4, 0})

	snapshot := r.Snapshot()
	if snapshot.Count != 5 {
		t.Fatalf("Count = %d, want 5", snapshot.Count)
	}
	if snapshot.Latency.Count != 5 {
		t.Errorf("Latency.Count = %d, want 5", snapshot.Latency.Count)
	}
	if snapshot.Latency.Max < 3990*time.Microsecond || snapshot.Latency.Max > 4010*time.Microsecond {
		t.Errorf("Max = %v, want ~4ms", snapshot.Latency.Max)
	}
}
