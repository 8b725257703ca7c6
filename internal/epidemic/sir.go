package epidemic

import (
	apperrors "github.com/agbru/sircompare/internal/errors"
)

// Compartment indices within the state vector passed to the integrator.
const (
	Susceptible = iota
	Infected
	Recovered

	// Compartments is the dimension of the SIR state vector.
	Compartments
)

// Params are the rates of the SIR model.
type Params struct {
	// Beta is the effective contact rate times transmission probability, per day.
	Beta float64
	// Gamma is the recovery rate, per day; 1/Gamma is the mean infectious period.
	Gamma float64
}

// R0 returns the basic reproduction number beta/gamma.
func (p Params) R0() float64 {
	return p.Beta / p.Gamma
}

// Validate checks that both rates are strictly positive and finite.
// The prefix names the scenario in the returned ValidationError.
func (p Params) Validate(prefix string) error {
	if !positiveFinite(p.Beta) {
		return apperrors.ValidationError{Field: prefix + "-beta", Message: "transmission rate must be a positive number"}
	}
	if !positiveFinite(p.Gamma) {
		return apperrors.ValidationError{Field: prefix + "-gamma", Message: "recovery rate must be a positive number"}
	}
	return nil
}

// State is a point in the (S, I, R) space.
type State struct {
	S, I, R float64
}

// Total returns S + I + R.
func (s State) Total() float64 {
	return s.S + s.I + s.R
}

// Vector returns the state in integrator order.
func (s State) Vector() []float64 {
	return []float64{Susceptible: s.S, Infected: s.I, Recovered: s.R}
}

// Model is the mass-action SIR system for a closed population.
type Model struct {
	Population float64
	Params
}

// Derivative writes dS/dt, dI/dt and dR/dt for state y into dydt.
// The model is autonomous, so t is ignored.
func (m Model) Derivative(_ float64, y, dydt []float64) {
	s, i := y[Susceptible], y[Infected]
	infections := m.Beta * s * i / m.Population
	recoveries := m.Gamma * i

	dydt[Susceptible] = -infections
	dydt[Infected] = infections - recoveries
	dydt[Recovered] = recoveries
}
