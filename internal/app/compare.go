package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/sircompare/internal/cli"
	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/logging"
	"github.com/agbru/sircompare/internal/metrics"
	"github.com/agbru/sircompare/internal/orchestration"
	"github.com/agbru/sircompare/internal/plot"
	"github.com/agbru/sircompare/internal/sysmon"
	"github.com/agbru/sircompare/internal/tui"
)

// runCompare simulates both diseases, prints the report blocks and writes
// the requested artifacts. Stdout carries only the report; the spinner and
// diagnostics go to ErrWriter.
func (a *Application) runCompare(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (signals, then timeout). The viewer only watches the
	// signal context so that it stays open past the simulation deadline.
	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	runCtx, cancelTimeout := context.WithTimeout(sigCtx, a.Config.Timeout)
	defer cancelTimeout()

	scenarios := a.Config.Scenarios()
	sim := a.Config.Simulation()

	a.Logger.Debug("starting comparison",
		logging.Float64("population", sim.Population),
		logging.Float64("days", sim.End-sim.Start),
		logging.Int("samples", sim.Samples),
		logging.Int("workers", a.Config.Workers),
	)

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := a.ErrWriter
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	results := orchestration.RunScenarios(runCtx, a.Simulate, scenarios, sim, a.Config.Workers, progressReporter, progressOut)
	after := collector.Snapshot()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		markTimeouts(results, a.Config.Timeout)
	}

	for _, res := range results {
		if res.Err != nil {
			continue
		}
		st := res.Trajectory.Stats()
		a.Logger.Debug("scenario finished",
			logging.String("scenario", res.Scenario.Name),
			logging.Int("steps", st.Steps),
			logging.Int("rejected", st.Rejected),
			logging.Int("evaluations", st.Evaluations),
			logging.String("duration", res.Duration.String()),
		)
	}

	exitCode := orchestration.AnalyzeResults(results, a.Config.Details, cli.CLIResultPresenter{ErrOut: a.ErrWriter}, out)

	// A failed metrics export does not prevent the chart and CSV from being
	// written; it only changes the exit code.
	if err := a.writeMetrics(results, before, after); err != nil {
		a.Logger.Error("metrics export failed", err, logging.String("path", a.Config.MetricsFile))
		exitCode = firstFailure(exitCode, apperrors.ExitErrorGeneric)
	}

	if orchestration.FirstError(results) != nil {
		return exitCode
	}

	if err := a.writeArtifacts(results); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return firstFailure(exitCode, apperrors.ExitErrorGeneric)
	}
	if exitCode != apperrors.ExitSuccess {
		return exitCode
	}

	if a.Config.Interactive {
		return tui.Run(sigCtx, results, tui.Options{
			Place:   a.Config.Place,
			Version: Version,
			Details: a.Config.Details,
			ErrOut:  a.ErrWriter,
		})
	}
	return apperrors.ExitSuccess
}

// writeMetrics exports the run gauges when a metrics file is configured.
func (a *Application) writeMetrics(results []orchestration.ScenarioResult, before, after metrics.MemorySnapshot) error {
	if a.Config.MetricsFile == "" {
		return nil
	}
	recorder := metrics.NewRecorder()
	recorder.Observe(results)
	recorder.ObserveMemory(before, after)
	recorder.ObserveHost(sysmon.Sample())
	if err := recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
		return apperrors.WrapError(err, "writing metrics %s", a.Config.MetricsFile)
	}
	a.Logger.Info("metrics written", logging.String("path", a.Config.MetricsFile))
	return nil
}

// writeArtifacts writes the chart and the series CSV when requested.
func (a *Application) writeArtifacts(results []orchestration.ScenarioResult) error {
	if a.Config.PlotFile != "" {
		opts := plot.DefaultOptions()
		opts.Place = a.Config.Place
		if err := plot.WriteComparisonPNG(a.Config.PlotFile, results, opts); err != nil {
			return apperrors.WrapError(err, "writing chart %s", a.Config.PlotFile)
		}
		a.Logger.Info("comparison chart written", logging.String("path", a.Config.PlotFile))
	}
	if a.Config.SeriesCSV != "" {
		if err := cli.WriteSeriesCSV(a.Config.SeriesCSV, results); err != nil {
			return apperrors.WrapError(err, "writing series %s", a.Config.SeriesCSV)
		}
		a.Logger.Info("series written", logging.String("path", a.Config.SeriesCSV))
	}
	return nil
}

// markTimeouts replaces the deadline errors left by the run timeout with a
// TimeoutError carrying the configured limit.
func markTimeouts(results []orchestration.ScenarioResult, limit time.Duration) {
	for i := range results {
		if errors.Is(results[i].Err, context.DeadlineExceeded) {
			results[i].Err = apperrors.TimeoutError{Operation: "simulate " + results[i].Scenario.Name, Limit: limit}
		}
	}
}

// firstFailure keeps an earlier non-zero exit code over a later one.
func firstFailure(current, next int) int {
	if current != apperrors.ExitSuccess {
		return current
	}
	return next
}
