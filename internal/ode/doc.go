// Package ode integrates systems of ordinary differential equations with an
// explicit adaptive Runge-Kutta 5(4) method (Dormand-Prince).
//
// The solver advances with error-controlled steps and fills caller-supplied
// report times from the 4th-order continuous extension of each step, so the
// sampled output does not depend on where the internal steps land.
//
// # Example
//
//	decay := func(t float64, y, dydt []float64) { dydt[0] = -y[0] }
//	sol, err := ode.Solve(ctx, decay, 0, 5, []float64{1}, []float64{0, 1, 2, 5}, ode.DefaultOptions())
//
// Tolerances default to rtol = 1e-3 and atol = 1e-6. They are always applied
// explicitly so that two runs with the same inputs produce identical samples.
package ode
