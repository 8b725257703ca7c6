package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/sircompare/internal/analysis"
	"github.com/agbru/sircompare/internal/epidemic"
	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/progress"
)

const tracerName = "github.com/agbru/sircompare/internal/orchestration"

// ProgressBufferMultiplier sizes the progress channel per scenario so that a
// slow reporter rarely causes updates to be dropped.
const ProgressBufferMultiplier = 16

// SimulateFunc integrates one scenario. epidemic.Simulate is the production
// implementation.
type SimulateFunc func(ctx context.Context, sc epidemic.Scenario, cfg epidemic.SimulationConfig) (*epidemic.Trajectory, error)

// ExecuteScenarios simulates every scenario with epidemic.Simulate and
// returns the results in scenario order. See RunScenarios.
func ExecuteScenarios(ctx context.Context, scenarios []epidemic.Scenario, cfg epidemic.SimulationConfig, workers int, reporter ProgressReporter, out io.Writer) []ScenarioResult {
	return RunScenarios(ctx, epidemic.Simulate, scenarios, cfg, workers, reporter, out)
}

// RunScenarios runs scenarios through simulate with at most workers of them
// in flight (values below 1 mean one, which keeps the run sequential).
//
// Results are stored by index, so their order never depends on scheduling.
// A failing scenario does not stop the others; its error is recorded in its
// result. Progress is reported as the fraction of the horizon integrated and
// is dropped rather than blocking the solver when the reporter falls behind.
func RunScenarios(ctx context.Context, simulate SimulateFunc, scenarios []epidemic.Scenario, cfg epidemic.SimulationConfig, workers int, reporter ProgressReporter, out io.Writer) []ScenarioResult {
	if workers < 1 {
		workers = 1
	}
	if reporter == nil {
		reporter = NullProgressReporter{}
	}

	results := make([]ScenarioResult, len(scenarios))
	progressChan := make(chan progress.ProgressUpdate, len(scenarios)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(scenarios), out)

	var g errgroup.Group
	g.SetLimit(workers)
	tracer := otel.Tracer(tracerName)

	for i, sc := range scenarios {
		idx, scenario := i, sc
		g.Go(func() error {
			spanCtx, span := tracer.Start(ctx, "simulate "+scenario.Name)
			defer span.End()
			span.SetAttributes(
				attribute.String("scenario", scenario.Name),
				attribute.Float64("beta", scenario.Params.Beta),
				attribute.Float64("gamma", scenario.Params.Gamma),
				attribute.Float64("population", cfg.Population),
			)

			runCfg := cfg
			runCfg.Solver.Observer = func(t float64) {
				select {
				case progressChan <- progress.ProgressUpdate{ScenarioIndex: idx, Value: progress.Fraction(t, cfg.Start, cfg.End)}:
				default:
				}
			}

			start := time.Now()
			tr, err := simulate(spanCtx, scenario, runCfg)
			res := ScenarioResult{Scenario: scenario, Trajectory: tr, Duration: time.Since(start)}
			if err != nil {
				res.Err = classify(scenario, err)
				span.RecordError(res.Err)
				span.SetStatus(codes.Error, res.Err.Error())
			} else {
				res.Summary = analysis.Summarize(tr, scenario.FatalityRatio)
				span.SetAttributes(
					attribute.Int("solver.steps", tr.Stats().Steps),
					attribute.Int("solver.rejected", tr.Stats().Rejected),
					attribute.Float64("peak.day", res.Summary.PeakDay),
				)
			}
			results[idx] = res
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// classify keeps configuration and context errors as they are and wraps
// everything else as a solver failure of the scenario.
func classify(sc epidemic.Scenario, err error) error {
	var ve apperrors.ValidationError
	if apperrors.IsContextError(err) || errors.As(err, &ve) {
		return err
	}
	return apperrors.SolverError{Scenario: sc.DisplayName, Cause: err}
}

// AnalyzeResults presents the results in order and returns the exit code.
//
// Successful scenarios are presented until the first failure, which is
// handed to the presenter's HandleError; blocks already written stay written.
func AnalyzeResults(results []ScenarioResult, details bool, presenter ResultPresenter, out io.Writer) int {
	for _, res := range results {
		if res.Err != nil {
			return presenter.HandleError(res, out)
		}
		presenter.PresentResult(res, details, out)
	}
	return apperrors.ExitSuccess
}

// FirstError returns the first error among results, in scenario order.
func FirstError(results []ScenarioResult) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}
