package orchestration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agbru/sircompare/internal/epidemic"
	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/ode"
	"github.com/agbru/sircompare/internal/progress"
)

// MockResultPresenter records the scenarios it was asked to present.
type MockResultPresenter struct {
	presented []string
	failed    []string
}

func (m *MockResultPresenter) PresentResult(result ScenarioResult, details bool, out io.Writer) {
	m.presented = append(m.presented, result.Scenario.Name)
	fmt.Fprintln(out, result.Scenario.DisplayName)
}

func (m *MockResultPresenter) HandleError(result ScenarioResult, out io.Writer) int {
	m.failed = append(m.failed, result.Scenario.Name)
	return apperrors.ExitCodeFor(result.Err)
}

func fakeTrajectory() *epidemic.Trajectory {
	return epidemic.NewTrajectory(100, []float64{0, 1, 2}, []float64{99, 60, 50}, []float64{1, 30, 10}, []float64{0, 10, 40})
}

func TestExecuteScenarios(t *testing.T) {
	t.Parallel()
	results := ExecuteScenarios(context.Background(), epidemic.DefaultScenarios(), epidemic.DefaultSimulationConfig(), 1, NullProgressReporter{}, io.Discard)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, want := range []string{"plague", "covid"} {
		res := results[i]
		if res.Err != nil {
			t.Fatalf("%s: unexpected error: %v", want, res.Err)
		}
		if res.Scenario.Name != want {
			t.Errorf("result %d is %q, want %q", i, res.Scenario.Name, want)
		}
		if res.Trajectory == nil || res.Trajectory.Len() != epidemic.DefaultSamples {
			t.Errorf("%s: missing trajectory", want)
		}
	}
	if results[0].Summary.PeakIndex != 71 || results[1].Summary.PeakIndex != 37 {
		t.Errorf("peak indices = %d, %d; want 71, 37", results[0].Summary.PeakIndex, results[1].Summary.PeakIndex)
	}
}

func TestRunScenarios(t *testing.T) {
	t.Parallel()
	ok := func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error) {
		return fakeTrajectory(), nil
	}
	tests := []struct {
		name     string
		simulate SimulateFunc
		check    func(t *testing.T, err error)
	}{
		{
			name:     "success",
			simulate: ok,
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			},
		},
		{
			name: "solver failure is wrapped",
			simulate: func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error) {
				return nil, ode.ErrStepSizeTooSmall
			},
			check: func(t *testing.T, err error) {
				var se apperrors.SolverError
				if !errors.As(err, &se) || !errors.Is(err, ode.ErrStepSizeTooSmall) {
					t.Errorf("expected SolverError wrapping ErrStepSizeTooSmall, got %v", err)
				}
			},
		},
		{
			name: "validation error kept",
			simulate: func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error) {
				return nil, apperrors.ValidationError{Field: "samples", Message: "too few"}
			},
			check: func(t *testing.T, err error) {
				if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
					t.Errorf("expected config exit code for %v", err)
				}
			},
		},
		{
			name: "context error kept",
			simulate: func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error) {
				return nil, context.DeadlineExceeded
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, context.DeadlineExceeded) {
					t.Errorf("expected DeadlineExceeded, got %v", err)
				}
				var se apperrors.SolverError
				if errors.As(err, &se) {
					t.Error("context error must not be wrapped as a solver error")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := RunScenarios(context.Background(), tt.simulate, []epidemic.Scenario{epidemic.BubonicPlague()}, epidemic.DefaultSimulationConfig(), 1, NullProgressReporter{}, io.Discard)
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			tt.check(t, results[0].Err)
		})
	}
}

func TestRunScenariosRespectsWorkerLimit(t *testing.T) {
	t.Parallel()
	var inFlight, peak atomic.Int32
	simulate := func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return fakeTrajectory(), nil
	}
	scenarios := make([]epidemic.Scenario, 6)
	for i := range scenarios {
		scenarios[i] = epidemic.Covid19()
		scenarios[i].Name = fmt.Sprintf("s%d", i)
	}

	results := RunScenarios(context.Background(), simulate, scenarios, epidemic.DefaultSimulationConfig(), 2, NullProgressReporter{}, io.Discard)
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
	for i, res := range results {
		if res.Scenario.Name != scenarios[i].Name {
			t.Errorf("result %d is %q, want %q", i, res.Scenario.Name, scenarios[i].Name)
		}
	}
}

func TestRunScenariosForwardsProgress(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var updates []progress.ProgressUpdate
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, n int, out io.Writer) {
		defer wg.Done()
		for u := range ch {
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
		}
	})
	simulate := func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error) {
		cfg.Solver.Observer(80)
		cfg.Solver.Observer(160)
		return fakeTrajectory(), nil
	}

	RunScenarios(context.Background(), simulate, []epidemic.Scenario{epidemic.BubonicPlague()}, epidemic.DefaultSimulationConfig(), 1, reporter, io.Discard)

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 2 || updates[0].Value != 0.5 || updates[1].Value != 1 {
		t.Errorf("unexpected progress updates: %+v", updates)
	}
}

func TestAnalyzeResults(t *testing.T) {
	t.Parallel()
	plague, covid := epidemic.BubonicPlague(), epidemic.Covid19()
	tests := []struct {
		name           string
		results        []ScenarioResult
		expectedStatus int
		presented      int
	}{
		{
			name: "All success",
			results: []ScenarioResult{
				{Scenario: plague, Trajectory: fakeTrajectory()},
				{Scenario: covid, Trajectory: fakeTrajectory()},
			},
			expectedStatus: apperrors.ExitSuccess,
			presented:      2,
		},
		{
			name: "Second fails",
			results: []ScenarioResult{
				{Scenario: plague, Trajectory: fakeTrajectory()},
				{Scenario: covid, Err: apperrors.SolverError{Scenario: "COVID-19", Cause: ode.ErrStepSizeTooSmall}},
			},
			expectedStatus: apperrors.ExitErrorSolver,
			presented:      1,
		},
		{
			name: "First canceled",
			results: []ScenarioResult{
				{Scenario: plague, Err: context.Canceled},
				{Scenario: covid, Trajectory: fakeTrajectory()},
			},
			expectedStatus: apperrors.ExitErrorCanceled,
			presented:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &MockResultPresenter{}
			var buf bytes.Buffer
			status := AnalyzeResults(tt.results, false, presenter, &buf)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if len(presenter.presented) != tt.presented {
				t.Errorf("presented %v, want %d blocks", presenter.presented, tt.presented)
			}
		})
	}
}

func TestFirstError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	if err := FirstError([]ScenarioResult{{}, {Err: boom}, {Err: context.Canceled}}); err != boom {
		t.Errorf("FirstError = %v, want boom", err)
	}
	if err := FirstError(nil); err != nil {
		t.Errorf("FirstError(nil) = %v", err)
	}
}
