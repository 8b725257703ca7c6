package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/sircompare/internal/analysis"
	"github.com/agbru/sircompare/internal/epidemic"
	"github.com/agbru/sircompare/internal/progress"
)

// ScenarioResult is the outcome of simulating one scenario. It is the shared
// domain type between orchestration and the presentation layers.
type ScenarioResult struct {
	// Scenario is the simulated disease.
	Scenario epidemic.Scenario
	// Trajectory is the sampled solution. It is nil if an error occurred.
	Trajectory *epidemic.Trajectory
	// Summary holds the derived statistics. It is zero if an error occurred.
	Summary analysis.Summary
	// Duration is the wall time spent integrating.
	Duration time.Duration
	// Err contains any error that occurred during the simulation.
	Err error
}

// ProgressReporter displays progress while scenarios run.
//
// DisplayProgress is started in its own goroutine and must return, calling
// wg.Done, once progressChan is closed.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numScenarios int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numScenarios int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numScenarios int, out io.Writer) {
	f(wg, progressChan, numScenarios, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. It is used in quiet mode and in tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders scenario results.
type ResultPresenter interface {
	// PresentResult writes the report block of one successful scenario.
	PresentResult(result ScenarioResult, details bool, out io.Writer)
	// HandleError reports a failed scenario and returns the exit code.
	HandleError(result ScenarioResult, out io.Writer) int
}
