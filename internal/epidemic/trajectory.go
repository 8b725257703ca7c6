package epidemic

import "github.com/agbru/sircompare/internal/ode"

// Trajectory is the sampled solution of one scenario. It is immutable:
// accessors return copies so callers cannot alter the series.
type Trajectory struct {
	population float64
	t          []float64
	s, i, r    []float64
	stats      ode.Stats
}

func newTrajectory(population float64, sol *ode.Solution) *Trajectory {
	n := len(sol.T)
	tr := &Trajectory{
		population: population,
		t:          append([]float64(nil), sol.T...),
		s:          make([]float64, n),
		i:          make([]float64, n),
		r:          make([]float64, n),
		stats:      sol.Stats,
	}
	for k, y := range sol.Y {
		tr.s[k] = y[Susceptible]
		tr.i[k] = y[Infected]
		tr.r[k] = y[Recovered]
	}
	return tr
}

// NewTrajectory builds a trajectory from explicit series. All series must
// have the same length.
func NewTrajectory(population float64, t, s, i, r []float64) *Trajectory {
	if len(s) != len(t) || len(i) != len(t) || len(r) != len(t) {
		panic("epidemic: trajectory series lengths differ")
	}
	return &Trajectory{
		population: population,
		t:          append([]float64(nil), t...),
		s:          append([]float64(nil), s...),
		i:          append([]float64(nil), i...),
		r:          append([]float64(nil), r...),
	}
}

// Population returns the total population N the trajectory was computed for.
func (tr *Trajectory) Population() float64 { return tr.population }

// Len returns the number of samples.
func (tr *Trajectory) Len() int { return len(tr.t) }

// Time returns the report time of sample k.
func (tr *Trajectory) Time(k int) float64 { return tr.t[k] }

// At returns the state at sample k.
func (tr *Trajectory) At(k int) State {
	return State{S: tr.s[k], I: tr.i[k], R: tr.r[k]}
}

// Final returns the state at the last sample.
func (tr *Trajectory) Final() State { return tr.At(tr.Len() - 1) }

// Times returns a copy of the report times.
func (tr *Trajectory) Times() []float64 { return append([]float64(nil), tr.t...) }

// Susceptible returns a copy of the S series.
func (tr *Trajectory) Susceptible() []float64 { return append([]float64(nil), tr.s...) }

// Infected returns a copy of the I series.
func (tr *Trajectory) Infected() []float64 { return append([]float64(nil), tr.i...) }

// Recovered returns a copy of the R series.
func (tr *Trajectory) Recovered() []float64 { return append([]float64(nil), tr.r...) }

// Stats returns the integrator statistics of the run.
func (tr *Trajectory) Stats() ode.Stats { return tr.stats }
