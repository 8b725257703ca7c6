// Package orchestration runs the configured epidemic scenarios, fans their
// progress into a single reporter and hands the collected results to a
// presenter. It decouples the simulation from presentation via the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
