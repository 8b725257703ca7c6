// Package analysis derives the reported statistics from a sampled SIR
// trajectory: the infection peak, end-of-horizon totals and the estimated
// death counts obtained by applying a constant fatality ratio.
//
// Every statistic is computed from the sampled series, not from the
// continuous solution, so the peak day is always one of the report times.
package analysis
