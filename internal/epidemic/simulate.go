package epidemic

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/ode"
)

// Defaults of the Denver comparison.
const (
	DefaultPopulation      = 729000
	DefaultInitialInfected = 1
	DefaultStart           = 0
	DefaultEnd             = 160
	DefaultSamples         = 160
)

// SimulationConfig holds the inputs shared by every scenario of a run.
type SimulationConfig struct {
	// Population is the constant total N.
	Population float64
	// InitialInfected is I(0); S(0) = N - I(0) and R(0) = 0.
	InitialInfected float64
	// Start and End bound the simulated horizon in days.
	Start, End float64
	// Samples is the number of evenly spaced report times, endpoints included.
	Samples int
	// Solver configures the integrator.
	Solver ode.Options
}

// DefaultSimulationConfig returns the configuration of the Denver comparison.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Population:      DefaultPopulation,
		InitialInfected: DefaultInitialInfected,
		Start:           DefaultStart,
		End:             DefaultEnd,
		Samples:         DefaultSamples,
		Solver:          ode.DefaultOptions(),
	}
}

// Validate checks the population, initial condition, horizon and tolerances.
func (c SimulationConfig) Validate() error {
	switch {
	case !positiveFinite(c.Population):
		return apperrors.ValidationError{Field: "population", Message: "must be a positive number"}
	case !positiveFinite(c.InitialInfected) || c.InitialInfected > c.Population:
		return apperrors.ValidationError{Field: "initial-infected", Message: "must be positive and not exceed the population"}
	case math.IsNaN(c.Start) || math.IsInf(c.Start, 0) || !positiveFinite(c.End-c.Start):
		return apperrors.ValidationError{Field: "days", Message: "horizon must be a positive, finite number of days"}
	case c.Samples < 2:
		return apperrors.ValidationError{Field: "samples", Message: "at least two report times are required"}
	case !positiveFinite(c.Solver.RelTol):
		return apperrors.ValidationError{Field: "rtol", Message: "must be a positive number"}
	case !positiveFinite(c.Solver.AbsTol):
		return apperrors.ValidationError{Field: "atol", Message: "must be a positive number"}
	case c.Solver.MaxStep < 0 || math.IsNaN(c.Solver.MaxStep):
		return apperrors.ValidationError{Field: "max-step", Message: "must be zero (unbounded) or positive"}
	}
	return nil
}

// InitialState returns S(0) = N - I0, I(0) = I0, R(0) = 0.
func (c SimulationConfig) InitialState() State {
	return State{S: c.Population - c.InitialInfected, I: c.InitialInfected}
}

// ReportTimes returns Samples evenly spaced times over [Start, End].
func (c SimulationConfig) ReportTimes() []float64 {
	return floats.Span(make([]float64, c.Samples), c.Start, c.End)
}

// Simulate integrates the SIR model of one scenario and samples it at the
// configured report times. Integrator failures are returned unchanged.
func Simulate(ctx context.Context, sc Scenario, cfg SimulationConfig) (*Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	model := Model{Population: cfg.Population, Params: sc.Params}
	sol, err := ode.Solve(ctx, model.Derivative, cfg.Start, cfg.End, cfg.InitialState().Vector(), cfg.ReportTimes(), cfg.Solver)
	if err != nil {
		return nil, err
	}
	return newTrajectory(cfg.Population, sol), nil
}
