package orchestration

import (
	"time"

	"github.com/agbru/sircompare/internal/progress"
)

// ProgressAggregator averages the progress of several scenarios and derives
// a remaining-time estimate from the observed rate for the CLI spinner.
type ProgressAggregator struct {
	values  []float64
	started time.Time
	now     func() time.Time
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// ScenarioIndex is the index of the scenario that sent the update.
	ScenarioIndex int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the mean across all scenarios.
	AverageProgress float64
	// ETA is the estimated time remaining, zero until progress is observed.
	ETA time.Duration
}

// NewProgressAggregator creates an aggregator for numScenarios scenarios.
// It returns nil if numScenarios <= 0.
func NewProgressAggregator(numScenarios int) *ProgressAggregator {
	if numScenarios <= 0 {
		return nil
	}
	a := &ProgressAggregator{values: make([]float64, numScenarios), now: time.Now}
	a.started = a.now()
	return a
}

// Update records an update and returns the aggregated state. Updates with an
// out-of-range index are ignored; values only move forward.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	if update.ScenarioIndex >= 0 && update.ScenarioIndex < len(a.values) && update.Value > a.values[update.ScenarioIndex] {
		a.values[update.ScenarioIndex] = min(update.Value, 1)
	}
	return AggregatedProgress{
		ScenarioIndex:   update.ScenarioIndex,
		Value:           update.Value,
		AverageProgress: a.Average(),
		ETA:             a.ETA(),
	}
}

// Average returns the mean progress without updating.
func (a *ProgressAggregator) Average() float64 {
	var sum float64
	for _, v := range a.values {
		sum += v
	}
	return sum / float64(len(a.values))
}

// ETA extrapolates the remaining time from the elapsed time and the average
// progress.
func (a *ProgressAggregator) ETA() time.Duration {
	avg := a.Average()
	if avg <= 0 || avg >= 1 {
		return 0
	}
	elapsed := a.now().Sub(a.started)
	return time.Duration(float64(elapsed) * (1 - avg) / avg)
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
