package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/agbru/sircompare/internal/epidemic"
)

// Summary holds the statistics reported for one scenario.
type Summary struct {
	// Population is N.
	Population float64
	// FatalityRatio is the ratio applied to infections to estimate deaths.
	FatalityRatio float64

	// PeakIndex is the first sample at which I is largest.
	PeakIndex int
	// PeakDay is the report time at PeakIndex.
	PeakDay float64
	// PeakInfected is I at PeakIndex.
	PeakInfected float64
	// DeathsAtPeak is PeakInfected times the fatality ratio.
	DeathsAtPeak float64

	// Final is the state at the end of the horizon.
	Final epidemic.State
	// TotalInfected is N minus the final susceptible count.
	TotalInfected float64
	// TotalDeaths is TotalInfected times the fatality ratio.
	TotalDeaths float64
}

// PeakIndex returns the index of the largest value of infected. Ties
// resolve to the first index. It panics on an empty slice.
func PeakIndex(infected []float64) int {
	return floats.MaxIdx(infected)
}

// Summarize computes the statistics of a trajectory for a fatality ratio.
func Summarize(tr *epidemic.Trajectory, fatalityRatio float64) Summary {
	peak := PeakIndex(tr.Infected())
	peakState := tr.At(peak)
	final := tr.Final()
	totalInfected := tr.Population() - final.S

	return Summary{
		Population:    tr.Population(),
		FatalityRatio: fatalityRatio,
		PeakIndex:     peak,
		PeakDay:       tr.Time(peak),
		PeakInfected:  peakState.I,
		DeathsAtPeak:  peakState.I * fatalityRatio,
		Final:         final,
		TotalInfected: totalInfected,
		TotalDeaths:   totalInfected * fatalityRatio,
	}
}

// EstimatedDeaths returns I(t) scaled by the fatality ratio at every sample.
// It is the dashed curve of the comparison chart.
func EstimatedDeaths(tr *epidemic.Trajectory, fatalityRatio float64) []float64 {
	deaths := tr.Infected()
	floats.Scale(fatalityRatio, deaths)
	return deaths
}
