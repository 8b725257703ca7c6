// Package epidemic defines the SIR compartmental model, the disease scenarios
// compared by the tool and the immutable trajectories produced by simulating
// them.
package epidemic
