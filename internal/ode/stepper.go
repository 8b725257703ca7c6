package ode

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
)

// stepper holds the mutable integration state of one Solve call.
type stepper struct {
	f    Func
	opts Options

	t, tEnd float64
	hAbs    float64
	y, fy   []float64

	// k holds the stage derivatives of the current attempt; k[stages] is the
	// derivative at the end of the step.
	k    [stages + 1][]float64
	yNew []float64
	work []float64

	// Dense output of the last accepted step.
	tOld, h float64
	yOld    []float64
	q       [][4]float64

	stats Stats
}

func newStepper(f Func, t0, t1 float64, y0 []float64, opts Options) *stepper {
	n := len(y0)
	s := &stepper{
		f:    f,
		opts: opts,
		t:    t0,
		tEnd: t1,
		y:    append([]float64(nil), y0...),
		fy:   make([]float64, n),
		yNew: make([]float64, n),
		work: make([]float64, n),
		yOld: make([]float64, n),
		q:    make([][4]float64, n),
	}
	for i := range s.k {
		s.k[i] = make([]float64, n)
	}
	s.eval(t0, s.y, s.fy)
	s.hAbs = s.initialStep()
	return s
}

func (s *stepper) eval(t float64, y, dydt []float64) {
	s.f(t, y, dydt)
	s.stats.Evaluations++
}

// rmsNorm returns sqrt(mean((v_i / scale_i)^2)).
func rmsNorm(v, scale []float64) float64 {
	var sum float64
	for i := range v {
		r := v[i] / scale[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(v)))
}

// initialStep picks the first step size from the magnitude of the state, its
// derivative and a finite-difference estimate of the second derivative.
func (s *stepper) initialStep() float64 {
	n := len(s.y)
	span := s.tEnd - s.t
	scale := make([]float64, n)
	for i, v := range s.y {
		scale[i] = s.opts.AbsTol + math.Abs(v)*s.opts.RelTol
	}

	d0 := rmsNorm(s.y, scale)
	d1 := rmsNorm(s.fy, scale)
	h0 := 0.01 * d0 / d1
	if d0 < 1e-5 || d1 < 1e-5 || !isFinite(h0) || h0 <= 0 {
		h0 = 1e-6
	}
	h0 = math.Min(h0, span)

	y1 := s.work
	floats.AddScaledTo(y1, s.y, h0, s.fy)
	f1 := s.k[1]
	s.eval(s.t+h0, y1, f1)

	diff := make([]float64, n)
	floats.SubTo(diff, f1, s.fy)
	d2 := rmsNorm(diff, scale) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/(errorEstimatorOrder+1))
	}
	// Norms overflow for extremely small tolerances.
	if !isFinite(h1) || h1 <= 0 {
		h1 = math.Max(1e-6, h0*1e-3)
	}

	return math.Min(math.Min(100*h0, h1), math.Min(span, s.opts.maxStep()))
}

// step advances the state by one accepted step, shrinking the step size on
// rejection until the error estimate is within tolerance. ctx is checked
// before every attempt.
func (s *stepper) step(ctx context.Context) error {
	maxStep := s.opts.maxStep()
	minStep := 10 * math.Abs(math.Nextafter(s.t, math.Inf(1))-s.t)

	hAbs := s.hAbs
	if hAbs > maxStep {
		hAbs = maxStep
	} else if hAbs < minStep {
		hAbs = minStep
	}

	n := len(s.y)
	scale := s.work
	rejected := false
	exponent := -1.0 / (errorEstimatorOrder + 1)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Also catches a NaN step size.
		if !(hAbs >= minStep) {
			return ErrStepSizeTooSmall
		}

		tNew := s.t + hAbs
		if tNew > s.tEnd {
			tNew = s.tEnd
		}
		h := tNew - s.t
		hAbs = math.Abs(h)

		s.rkStep(h, tNew)

		for i := 0; i < n; i++ {
			scale[i] = s.opts.AbsTol + math.Max(math.Abs(s.y[i]), math.Abs(s.yNew[i]))*s.opts.RelTol
		}
		errNorm := s.errorNorm(h, scale)

		if errNorm < 1 {
			factor := float64(maxFactor)
			if errNorm > 0 {
				factor = math.Min(maxFactor, safety*math.Pow(errNorm, exponent))
			}
			if rejected {
				factor = math.Min(1, factor)
			}
			s.accept(h, tNew)
			s.hAbs = hAbs * factor
			s.stats.Steps++
			return nil
		}

		factor := float64(minFactor)
		if isFinite(errNorm) {
			factor = math.Max(minFactor, safety*math.Pow(errNorm, exponent))
		}
		hAbs *= factor
		rejected = true
		s.stats.Rejected++
	}
}

// rkStep evaluates all stages for a step of size h from the current state and
// writes the 5th-order result into yNew and its derivative into k[stages].
func (s *stepper) rkStep(h, tNew float64) {
	copy(s.k[0], s.fy)
	stage := s.yNew
	for i := 1; i < stages; i++ {
		for c := range stage {
			var dy float64
			for j := 0; j < i; j++ {
				dy += s.k[j][c] * rkA[i][j]
			}
			stage[c] = s.y[c] + dy*h
		}
		s.eval(s.t+rkC[i]*h, stage, s.k[i])
	}

	for c := range s.yNew {
		var acc float64
		for j := 0; j < stages; j++ {
			acc += s.k[j][c] * rkB[j]
		}
		s.yNew[c] = s.y[c] + h*acc
	}
	s.eval(tNew, s.yNew, s.k[stages])
}

// errorNorm returns the RMS of the local error estimate relative to scale.
func (s *stepper) errorNorm(h float64, scale []float64) float64 {
	var sum float64
	for i := range s.y {
		var e float64
		for j, c := range rkE {
			e += s.k[j][i] * c
		}
		r := h * e / scale[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(s.y)))
}

// accept commits the attempted step and prepares its dense output.
func (s *stepper) accept(h, tNew float64) {
	for i := range s.y {
		var q [4]float64
		for j := range q {
			var acc float64
			for st := range rkP {
				acc += s.k[st][i] * rkP[st][j]
			}
			q[j] = acc
		}
		s.q[i] = q
	}

	copy(s.yOld, s.y)
	s.tOld = s.t
	s.h = h

	copy(s.y, s.yNew)
	copy(s.fy, s.k[stages])
	s.t = tNew
}

// interpolate evaluates the continuous extension of the last accepted step.
func (s *stepper) interpolate(t float64) []float64 {
	x := (t - s.tOld) / s.h
	p := [4]float64{x, x * x, x * x * x, x * x * x * x}
	out := make([]float64, len(s.yOld))
	for i := range out {
		q := s.q[i]
		out[i] = s.yOld[i] + s.h*(q[0]*p[0]+q[1]*p[1]+q[2]*p[2]+q[3]*p[3])
	}
	return out
}
