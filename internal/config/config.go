// Package config parses and validates the command-line configuration of the
// comparison. Values resolve in the order CLI flags > SIRCMP_* environment
// variables > defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/sircompare/internal/epidemic"
	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/ode"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "SIRCMP_"

// Output defaults.
const (
	DefaultPlotFile = "sir_comparison.png"
	DefaultPlace    = "Denver"
	DefaultWorkers  = 1
	DefaultTimeout  = time.Minute
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Model
	Population      float64
	InitialInfected float64
	Days            float64
	Samples         int
	Place           string

	// Diseases
	PlagueBeta, PlagueGamma, PlagueFatality float64
	CovidBeta, CovidGamma, CovidFatality    float64

	// Solver
	RelTol  float64
	AbsTol  float64
	MaxStep float64
	Workers int
	Timeout time.Duration

	// Output
	PlotFile    string
	SeriesCSV   string
	MetricsFile string
	Interactive bool
	Details     bool
	Quiet       bool
	Verbose     bool
	NoColor     bool
	Completion  string
	ShowVersion bool
}

// Default returns the configuration of the Denver comparison.
func Default() AppConfig {
	plague, covid := epidemic.BubonicPlague(), epidemic.Covid19()
	return AppConfig{
		Population:      epidemic.DefaultPopulation,
		InitialInfected: epidemic.DefaultInitialInfected,
		Days:            epidemic.DefaultEnd - epidemic.DefaultStart,
		Samples:         epidemic.DefaultSamples,
		Place:           DefaultPlace,
		PlagueBeta:      plague.Params.Beta,
		PlagueGamma:     plague.Params.Gamma,
		PlagueFatality:  plague.FatalityRatio,
		CovidBeta:       covid.Params.Beta,
		CovidGamma:      covid.Params.Gamma,
		CovidFatality:   covid.FatalityRatio,
		RelTol:          ode.DefaultRelTol,
		AbsTol:          ode.DefaultAbsTol,
		Workers:         DefaultWorkers,
		Timeout:         DefaultTimeout,
		PlotFile:        DefaultPlotFile,
	}
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Usage and parse errors are written to errorOutput. A request for help
// returns flag.ErrHelp unchanged so the caller can exit cleanly; any other
// problem is returned as a ConfigError or ValidationError.
func ParseConfig(programName string, args []string, errorOutput io.Writer) (AppConfig, error) {
	config := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorOutput)
	fs.Usage = func() {
		fmt.Fprintf(errorOutput, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errorOutput, "Compares SIR epidemics of bubonic plague and COVID-19 in a fixed population.")
		fmt.Fprintln(errorOutput, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintf(errorOutput, "\nEvery option except --completion and --version can also be set with %s<NAME>,\n", EnvPrefix)
		fmt.Fprintf(errorOutput, "for example %sPOPULATION=1000000.\n", EnvPrefix)
	}

	fs.Float64Var(&config.Population, "population", config.Population, "Total population N.")
	fs.Float64Var(&config.Population, "N", config.Population, "Total population N (shorthand).")
	fs.Float64Var(&config.InitialInfected, "initial-infected", config.InitialInfected, "Infected people at day 0.")
	fs.Float64Var(&config.Days, "days", config.Days, "Simulated horizon in days.")
	fs.IntVar(&config.Samples, "samples", config.Samples, "Number of evenly spaced report times.")
	fs.StringVar(&config.Place, "place", config.Place, "Place named in chart titles.")

	fs.Float64Var(&config.PlagueBeta, "plague-beta", config.PlagueBeta, "Plague transmission rate per day.")
	fs.Float64Var(&config.PlagueGamma, "plague-gamma", config.PlagueGamma, "Plague recovery rate per day.")
	fs.Float64Var(&config.PlagueFatality, "plague-fatality", config.PlagueFatality, "Plague fatality ratio.")
	fs.Float64Var(&config.CovidBeta, "covid-beta", config.CovidBeta, "COVID-19 transmission rate per day.")
	fs.Float64Var(&config.CovidGamma, "covid-gamma", config.CovidGamma, "COVID-19 recovery rate per day.")
	fs.Float64Var(&config.CovidFatality, "covid-fatality", config.CovidFatality, "COVID-19 fatality ratio.")

	fs.Float64Var(&config.RelTol, "rtol", config.RelTol, "Solver relative tolerance.")
	fs.Float64Var(&config.AbsTol, "atol", config.AbsTol, "Solver absolute tolerance.")
	fs.Float64Var(&config.MaxStep, "max-step", config.MaxStep, "Largest solver step in days (0 = unbounded).")
	fs.IntVar(&config.Workers, "workers", config.Workers, "Scenarios simulated concurrently.")
	fs.DurationVar(&config.Timeout, "timeout", config.Timeout, "Maximum execution time (e.g., 30s, 1m).")

	fs.StringVar(&config.PlotFile, "plot", config.PlotFile, "PNG chart output file (empty to skip).")
	fs.StringVar(&config.SeriesCSV, "series-csv", "", "Write the sampled series as CSV to this file.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this file.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Open the interactive viewer after the run.")
	fs.BoolVar(&config.Details, "details", false, "Show model and solver details.")
	fs.BoolVar(&config.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: no spinner, warnings only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Debug logging.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also honors NO_COLOR).")
	fs.StringVar(&config.Completion, "completion", "", "Generate a completion script (bash, zsh, fish).")
	fs.BoolVar(&config.ShowVersion, "version", false, "Show version information.")
	fs.BoolVar(&config.ShowVersion, "V", false, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}

	if config.ShowVersion || config.Completion != "" {
		return config, nil
	}
	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the configuration for semantic consistency.
func (c AppConfig) Validate() error {
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if c.Workers < 1 {
		return apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if c.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be a positive duration"}
	}
	for _, sc := range c.Scenarios() {
		if err := sc.Validate(); err != nil {
			return err
		}
	}
	return c.Simulation().Validate()
}

// Scenarios returns the plague and COVID-19 scenarios with the configured
// rates, in report order.
func (c AppConfig) Scenarios() []epidemic.Scenario {
	plague, covid := epidemic.BubonicPlague(), epidemic.Covid19()
	plague.Params = epidemic.Params{Beta: c.PlagueBeta, Gamma: c.PlagueGamma}
	plague.FatalityRatio = c.PlagueFatality
	covid.Params = epidemic.Params{Beta: c.CovidBeta, Gamma: c.CovidGamma}
	covid.FatalityRatio = c.CovidFatality
	return []epidemic.Scenario{plague, covid}
}

// Simulation returns the shared simulation inputs. The horizon always
// starts at day 0.
func (c AppConfig) Simulation() epidemic.SimulationConfig {
	return epidemic.SimulationConfig{
		Population:      c.Population,
		InitialInfected: c.InitialInfected,
		Start:           epidemic.DefaultStart,
		End:             epidemic.DefaultStart + c.Days,
		Samples:         c.Samples,
		Solver: ode.Options{
			RelTol:  c.RelTol,
			AbsTol:  c.AbsTol,
			MaxStep: c.MaxStep,
		},
	}
}
