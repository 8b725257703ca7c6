// Package progress defines the progress messages exchanged between the
// scenario runner and the presentation layers.
package progress

// ProgressUpdate reports how far one scenario's integration has advanced.
type ProgressUpdate struct {
	// ScenarioIndex identifies the scenario in the run order.
	ScenarioIndex int
	// Value is the integrated fraction of the time horizon, in [0, 1].
	Value float64
}

// ProgressCallback receives the integrated fraction of the horizon.
type ProgressCallback func(progress float64)

// Fraction converts a solver time into the fraction of [start, end] covered,
// clamped to [0, 1].
func Fraction(t, start, end float64) float64 {
	if end <= start {
		return 1
	}
	f := (t - start) / (end - start)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
