package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/microbench/internal/bench"
	"github.com/wesleyorama2/microbench/internal/bench/config"
	"github.com/wesleyorama2/microbench/internal/bench/hooks"
)

func intPtr(i int) *int { return &i }

func noop(context.Context, bench.CallArgs) error { return nil }

func testBenchmark() *bench.Benchmark {
	return &bench.Benchmark{
		Name: "demo",
		Cases: []bench.Case{
			{Name: "fast", Fn: noop},
			{Name: "slow", Fn: func(context.Context, bench.CallArgs) error {
				time.Sleep(50 * time.Microsecond)
				return nil
			}},
		},
		Scenarios: []bench.Scenario{
			{Name: "small", Iterations: intPtr(20), Params: map[string]any{"n": 1}},
			{Name: "large", Iterations: intPtr(30), Params: map[string]any{"n": 2}},
		},
	}
}

type recordingLogger struct {
	logs []CaseLog
}

func (l *recordingLogger) LogCase(c CaseLog) error {
	l.logs = append(l.logs, c)
	return nil
}

type recordingComparator struct {
	comparisons []Comparison
}

func (c *recordingComparator) Compare(cmp Comparison) error {
	c.comparisons = append(c.comparisons, cmp)
	return nil
}

func TestRun_Report(t *testing.T) {
	logger := &recordingLogger{}
	comparator := &recordingComparator{}
	o := New(config.NewResolver(nil), WithLogger(logger), WithComparator(comparator))

	report, err := o.Run(context.Background(), testBenchmark())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "demo", report.Benchmark)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
	require.Len(t, report.Scenarios, 2)

	small, ok := report.Scenario("small")
	require.True(t, ok)
	assert.Equal(t, 20, small.Iterations)
	require.Len(t, small.Cases, 2)
	for _, c := range small.Cases {
		assert.Equal(t, 20, c.Count)
		assert.Equal(t, 20, c.Statistics.Count)
		assert.Equal(t, int64(20), c.HDR.Count)
		assert.NotEmpty(t, c.Histogram)
		assert.Nil(t, c.CPUStatistics)
		assert.InDelta(t, float64(c.Count)/(float64(c.Elapsed)/float64(time.Millisecond))*1000, c.Summary.OpsPerSec, 1e-6)
	}

	require.Len(t, logger.logs, 4)
	assert.Equal(t, "fast", logger.logs[0].Name)
	assert.Equal(t, "small", logger.logs[0].ScenarioName)
	assert.Equal(t, "large", logger.logs[3].ScenarioName)

	require.Len(t, comparator.comparisons, 2)
	assert.Equal(t, "small", comparator.comparisons[0].ScenarioName)
	assert.Len(t, comparator.comparisons[0].Results, 2)
}

func TestRun_SingleCaseSkipsComparator(t *testing.T) {
	comparator := &recordingComparator{}
	b := testBenchmark()
	b.Cases = b.Cases[:1]

	_, err := New(nil, WithComparator(comparator)).Run(context.Background(), b)
	require.NoError(t, err)
	assert.Empty(t, comparator.comparisons)
}

func TestRun_HookOrder(t *testing.T) {
	reg := hooks.NewRegistry(nil)
	var events []string
	for _, stage := range hooks.Stages {
		stage := stage
		require.NoError(t, reg.Register(stage, func(_ context.Context, hc hooks.Context) error {
			name := string(stage)
			if hc.Scenario != nil {
				name += ":" + hc.Scenario.Name
			}
			if hc.Case != nil {
				name += ":" + hc.Case.Name
			}
			events = append(events, name)
			return nil
		}))
	}

	b := testBenchmark()
	b.Scenarios = b.Scenarios[:1]

	_, err := New(nil, WithHooks(reg)).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"preBenchmark",
		"preScenario:small",
		"preCase:small:fast",
		"postCase:small:fast",
		"preCase:small:slow",
		"postCase:small:slow",
		"postScenario:small",
		"postBenchmark",
	}, events)
}

func TestRun_HookContextResults(t *testing.T) {
	reg := hooks.NewRegistry(nil)
	var caseResults []string
	var scenarioResults []bench.CaseResult

	require.NoError(t, reg.Register(hooks.PostCase, func(_ context.Context, hc hooks.Context) error {
		caseResults = append(caseResults, hc.Result.Name)
		return nil
	}))
	require.NoError(t, reg.Register(hooks.PostScenario, func(_ context.Context, hc hooks.Context) error {
		scenarioResults = hc.Results
		return nil
	}))

	b := testBenchmark()
	b.Scenarios = b.Scenarios[:1]
	_, err := New(nil, WithHooks(reg)).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, []string{"fast", "slow"}, caseResults)
	require.Len(t, scenarioResults, 2)
	assert.Equal(t, "slow", scenarioResults[1].Name)
}

func TestRun_FailingHookDoesNotStopRun(t *testing.T) {
	// two scenarios x two cases
	wantCalls := map[hooks.Stage]int{
		hooks.PreBenchmark:  1,
		hooks.PreScenario:   2,
		hooks.PreCase:       4,
		hooks.PostCase:      4,
		hooks.PostScenario:  2,
		hooks.PostBenchmark: 1,
	}

	for _, stage := range hooks.Stages {
		t.Run(string(stage), func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))
			reg := hooks.NewRegistry(log)

			var calls int
			require.NoError(t, reg.Register(stage, func(context.Context, hooks.Context) error {
				panic("hook exploded")
			}))
			require.NoError(t, reg.Register(stage, func(context.Context, hooks.Context) error {
				return errors.New("setup failed")
			}))
			require.NoError(t, reg.Register(stage, func(context.Context, hooks.Context) error {
				calls++
				return nil
			}))

			report, err := New(nil, WithHooks(reg), WithSlog(log)).Run(context.Background(), testBenchmark())
			require.NoError(t, err)
			require.Len(t, report.Scenarios, 2)
			for _, sr := range report.Scenarios {
				assert.Len(t, sr.Cases, 2)
			}

			assert.Equal(t, wantCalls[stage], calls)
			assert.Contains(t, buf.String(), "hook failed")
			assert.Contains(t, buf.String(), "stage="+string(stage))
		})
	}
}

func TestRun_AdapterFailuresAreIsolated(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	logger := LoggerFunc(func(CaseLog) error { panic("logger exploded") })
	comparator := ComparatorFunc(func(Comparison) error { return errors.New("no table") })

	report, err := New(nil, WithLogger(logger), WithComparator(comparator), WithSlog(log)).Run(context.Background(), testBenchmark())
	require.NoError(t, err)
	assert.Len(t, report.Scenarios, 2)
	assert.Contains(t, buf.String(), "logger adapter failed")
	assert.Contains(t, buf.String(), "comparator adapter failed")
}

func TestRun_CandidateFailureIsFatal(t *testing.T) {
	reg := hooks.NewRegistry(nil)
	var postCase, postBenchmark int
	require.NoError(t, reg.Register(hooks.PostCase, func(context.Context, hooks.Context) error {
		postCase++
		return nil
	}))
	require.NoError(t, reg.Register(hooks.PostBenchmark, func(context.Context, hooks.Context) error {
		postBenchmark++
		return nil
	}))

	boom := errors.New("boom")
	b := testBenchmark()
	b.Cases[1].Fn = func(context.Context, bench.CallArgs) error { return boom }

	report, err := New(nil, WithHooks(reg)).Run(context.Background(), b)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, bench.ErrCandidateFunction))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, postCase)
	assert.Equal(t, 0, postBenchmark)
}

func TestRun_ConfigurationErrorIsFatal(t *testing.T) {
	b := testBenchmark()
	zero := time.Duration(0)
	b.Scenarios[0].Iterations = intPtr(0)
	b.Scenarios[0].TimeLimit = &zero

	_, err := New(nil).Run(context.Background(), b)
	assert.True(t, errors.Is(err, bench.ErrConfiguration))
}

func TestRun_PayloadOncePerScenario(t *testing.T) {
	var mu sync.Mutex
	generated := map[string]int{}
	var seen []any

	b := testBenchmark()
	b.GeneratePayload = func(s bench.Scenario) any {
		mu.Lock()
		defer mu.Unlock()
		generated[s.Name]++
		return s.Params["n"]
	}
	b.Cases = []bench.Case{{Name: "capture", Fn: func(_ context.Context, args bench.CallArgs) error {
		seen = append(seen, args.Payload)
		return nil
	}}}

	_, err := New(nil).Run(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"small": 1, "large": 1}, generated)
	require.Len(t, seen, 50)
	assert.Equal(t, 1, seen[0])
	assert.Equal(t, 2, seen[49])
}

func TestRun_PayloadPanic(t *testing.T) {
	b := testBenchmark()
	b.GeneratePayload = func(bench.Scenario) any { panic("no data") }

	_, err := New(nil).Run(context.Background(), b)
	require.Error(t, err)

	var pErr *bench.PanicError
	assert.True(t, errors.As(err, &pErr))
}

func TestRun_PriorityCPU(t *testing.T) {
	b := testBenchmark()
	yes := true
	b.Scenarios = b.Scenarios[:1]
	b.Scenarios[0].PriorityCPU = &yes

	logger := &recordingLogger{}
	report, err := New(nil, WithLogger(logger)).Run(context.Background(), b)
	require.NoError(t, err)

	require.NotNil(t, report.Scenarios[0].Cases[0].CPUStatistics)
	assert.Equal(t, 20, report.Scenarios[0].Cases[0].CPUStatistics.Count)
	assert.True(t, logger.logs[0].PriorityCPU)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Run(ctx, testBenchmark())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_Progress(t *testing.T) {
	var mu sync.Mutex
	var final []Progress

	fn := func(p Progress) {
		if p.Done {
			mu.Lock()
			final = append(final, p)
			mu.Unlock()
		}
	}

	b := testBenchmark()
	b.Scenarios = b.Scenarios[:1]
	_, err := New(nil, WithProgress(fn, 10*time.Millisecond)).Run(context.Background(), b)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, final, 2)
	assert.Equal(t, "fast", final[0].Case)
	assert.Equal(t, int64(20), final[0].Snapshot.Count)
}

func TestValidateBenchmark(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *bench.Benchmark)
	}{
		{"no name", func(b *bench.Benchmark) { b.Name = "" }},
		{"no cases", func(b *bench.Benchmark) { b.Cases = nil }},
		{"no scenarios", func(b *bench.Benchmark) { b.Scenarios = nil }},
		{"duplicate case", func(b *bench.Benchmark) { b.Cases[1].Name = "fast" }},
		{"nil function", func(b *bench.Benchmark) { b.Cases[0].Fn = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBenchmark()
			tt.mutate(b)
			assert.True(t, errors.Is(ValidateBenchmark(b), bench.ErrInvalidInput))
		})
	}

	assert.True(t, errors.Is(ValidateBenchmark(nil), bench.ErrInvalidInput))
	assert.NoError(t, ValidateBenchmark(testBenchmark()))
}
