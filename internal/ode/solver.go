package ode

import (
	"context"
	"errors"
	"math"
	"sort"
)

// Default tolerances. They match the values commonly used as solver defaults
// and are pinned here so results are reproducible across runs.
const (
	DefaultRelTol = 1e-3
	DefaultAbsTol = 1e-6
)

var (
	// ErrInvalidSpan is returned when the integration interval is empty,
	// reversed or not finite.
	ErrInvalidSpan = errors.New("ode: integration span must be finite with t1 > t0")
	// ErrInvalidEvalPoints is returned when report times are unsorted, not
	// finite or outside the integration span.
	ErrInvalidEvalPoints = errors.New("ode: evaluation points must be sorted and lie within the integration span")
	// ErrInvalidTolerance is returned for non-positive or non-finite tolerances.
	ErrInvalidTolerance = errors.New("ode: tolerances must be positive and finite")
	// ErrEmptyState is returned when the initial state has no components.
	ErrEmptyState = errors.New("ode: initial state is empty")
	// ErrNonFiniteState is returned when the initial state or its derivative
	// contains NaN or Inf.
	ErrNonFiniteState = errors.New("ode: state or derivative is not finite")
	// ErrStepSizeTooSmall is returned when the error controller cannot find an
	// acceptable step larger than the floating-point spacing at the current time.
	ErrStepSizeTooSmall = errors.New("ode: required step size is less than spacing between numbers")
)

// Func evaluates the derivative of the system at time t and state y, writing
// the result into dydt. Implementations must not retain y or dydt.
type Func func(t float64, y, dydt []float64)

// Options configures the integrator.
type Options struct {
	// RelTol is the relative tolerance applied per component.
	RelTol float64
	// AbsTol is the absolute tolerance applied per component.
	AbsTol float64
	// MaxStep bounds the step size. Zero or +Inf means unbounded.
	MaxStep float64
	// Observer, when non-nil, is called with the end time of every accepted step.
	Observer func(t float64)
}

// DefaultOptions returns the pinned default tolerances with an unbounded step.
func DefaultOptions() Options {
	return Options{RelTol: DefaultRelTol, AbsTol: DefaultAbsTol}
}

func (o Options) validate() error {
	if !(o.RelTol > 0) || !(o.AbsTol > 0) || math.IsInf(o.RelTol, 0) || math.IsInf(o.AbsTol, 0) {
		return ErrInvalidTolerance
	}
	if o.MaxStep < 0 || math.IsNaN(o.MaxStep) {
		return ErrInvalidTolerance
	}
	return nil
}

func (o Options) maxStep() float64 {
	if o.MaxStep == 0 {
		return math.Inf(1)
	}
	return o.MaxStep
}

// Stats counts the work done by one integration.
type Stats struct {
	// Steps is the number of accepted steps.
	Steps int
	// Rejected is the number of rejected step attempts.
	Rejected int
	// Evaluations is the number of derivative evaluations.
	Evaluations int
}

// Solution holds the sampled output of an integration.
type Solution struct {
	// T holds the report times.
	T []float64
	// Y holds the state at each report time; Y[i] has the dimension of y0.
	Y [][]float64
	// Stats reports the solver work.
	Stats Stats
}

// Solve integrates dy/dt = f(t, y) from t0 to t1 starting at y0.
//
// When tEval is non-empty the solution is reported exactly at those times
// (which must be sorted and inside [t0, t1]); otherwise the state after every
// accepted step is reported, starting with (t0, y0). The context is checked
// once per step and its error is returned unchanged on cancellation.
func Solve(ctx context.Context, f Func, t0, t1 float64, y0 []float64, tEval []float64, opts Options) (*Solution, error) {
	if !isFinite(t0) || !isFinite(t1) || !(t1 > t0) {
		return nil, ErrInvalidSpan
	}
	if len(y0) == 0 {
		return nil, ErrEmptyState
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validateEvalPoints(tEval, t0, t1); err != nil {
		return nil, err
	}
	for _, v := range y0 {
		if !isFinite(v) {
			return nil, ErrNonFiniteState
		}
	}

	s := newStepper(f, t0, t1, y0, opts)
	if !allFinite(s.fy) {
		return nil, ErrNonFiniteState
	}

	capacity := len(tEval)
	dense := capacity > 0
	if !dense {
		capacity = 64
	}
	sol := &Solution{
		T: make([]float64, 0, capacity),
		Y: make([][]float64, 0, capacity),
	}
	if !dense {
		sol.T = append(sol.T, t0)
		sol.Y = append(sol.Y, append([]float64(nil), y0...))
	}

	next := 0
	for s.t < t1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.step(ctx); err != nil {
			return nil, err
		}

		if dense {
			for next < len(tEval) && tEval[next] <= s.t {
				sol.T = append(sol.T, tEval[next])
				sol.Y = append(sol.Y, s.interpolate(tEval[next]))
				next++
			}
		} else {
			sol.T = append(sol.T, s.t)
			sol.Y = append(sol.Y, append([]float64(nil), s.y...))
		}

		if opts.Observer != nil {
			opts.Observer(s.t)
		}
	}

	sol.Stats = s.stats
	return sol, nil
}

func validateEvalPoints(tEval []float64, t0, t1 float64) error {
	for _, v := range tEval {
		if !isFinite(v) || v < t0 || v > t1 {
			return ErrInvalidEvalPoints
		}
	}
	if !sort.Float64sAreSorted(tEval) {
		return ErrInvalidEvalPoints
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(vs []float64) bool {
	for _, v := range vs {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
