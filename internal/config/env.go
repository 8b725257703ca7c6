// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/sircompare/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the SIRCMP_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
// apply returns an error for values that cannot be parsed.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

func floatEnv(dst func(*AppConfig) *float64) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = parsed
		return nil
	}
}

func intEnv(dst func(*AppConfig) *int) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = parsed
		return nil
	}
}

func stringEnv(dst func(*AppConfig) *string) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		*dst(c) = v
		return nil
	}
}

func boolEnv(dst func(*AppConfig) *bool) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		*dst(c) = parseBoolEnv(v, *dst(c))
		return nil
	}
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Model
	{"POPULATION", []string{"population", "N"}, floatEnv(func(c *AppConfig) *float64 { return &c.Population })},
	{"INITIAL_INFECTED", []string{"initial-infected"}, floatEnv(func(c *AppConfig) *float64 { return &c.InitialInfected })},
	{"DAYS", []string{"days"}, floatEnv(func(c *AppConfig) *float64 { return &c.Days })},
	{"SAMPLES", []string{"samples"}, intEnv(func(c *AppConfig) *int { return &c.Samples })},
	{"PLACE", []string{"place"}, stringEnv(func(c *AppConfig) *string { return &c.Place })},

	// Diseases
	{"PLAGUE_BETA", []string{"plague-beta"}, floatEnv(func(c *AppConfig) *float64 { return &c.PlagueBeta })},
	{"PLAGUE_GAMMA", []string{"plague-gamma"}, floatEnv(func(c *AppConfig) *float64 { return &c.PlagueGamma })},
	{"PLAGUE_FATALITY", []string{"plague-fatality"}, floatEnv(func(c *AppConfig) *float64 { return &c.PlagueFatality })},
	{"COVID_BETA", []string{"covid-beta"}, floatEnv(func(c *AppConfig) *float64 { return &c.CovidBeta })},
	{"COVID_GAMMA", []string{"covid-gamma"}, floatEnv(func(c *AppConfig) *float64 { return &c.CovidGamma })},
	{"COVID_FATALITY", []string{"covid-fatality"}, floatEnv(func(c *AppConfig) *float64 { return &c.CovidFatality })},

	// Solver
	{"RTOL", []string{"rtol"}, floatEnv(func(c *AppConfig) *float64 { return &c.RelTol })},
	{"ATOL", []string{"atol"}, floatEnv(func(c *AppConfig) *float64 { return &c.AbsTol })},
	{"MAX_STEP", []string{"max-step"}, floatEnv(func(c *AppConfig) *float64 { return &c.MaxStep })},
	{"WORKERS", []string{"workers"}, intEnv(func(c *AppConfig) *int { return &c.Workers })},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = parsed
		return nil
	}},

	// Output
	{"PLOT", []string{"plot"}, stringEnv(func(c *AppConfig) *string { return &c.PlotFile })},
	{"SERIES_CSV", []string{"series-csv"}, stringEnv(func(c *AppConfig) *string { return &c.SeriesCSV })},
	{"METRICS_FILE", []string{"metrics-file"}, stringEnv(func(c *AppConfig) *string { return &c.MetricsFile })},
	{"INTERACTIVE", []string{"interactive"}, boolEnv(func(c *AppConfig) *bool { return &c.Interactive })},
	{"DETAILS", []string{"d", "details"}, boolEnv(func(c *AppConfig) *bool { return &c.Details })},
	{"QUIET", []string{"quiet", "q"}, boolEnv(func(c *AppConfig) *bool { return &c.Quiet })},
	{"VERBOSE", []string{"v", "verbose"}, boolEnv(func(c *AppConfig) *bool { return &c.Verbose })},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
// A value that cannot be parsed is reported as a ConfigError naming the
// variable.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val := os.Getenv(EnvPrefix + o.envKey)
		if val == "" {
			continue
		}
		if err := o.apply(config, val); err != nil {
			return apperrors.NewConfigError("invalid value %q for %s%s: %v", val, EnvPrefix, o.envKey, err)
		}
	}
	return nil
}
