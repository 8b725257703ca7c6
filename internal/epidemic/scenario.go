package epidemic

import (
	"math"

	apperrors "github.com/agbru/sircompare/internal/errors"
)

// Scenario describes one disease to simulate.
type Scenario struct {
	// Name is a short identifier used in logs, metrics and flags.
	Name string
	// DisplayName is the human-readable disease name used in reports.
	DisplayName string
	// Params are the SIR rates of the disease.
	Params Params
	// FatalityRatio is the fraction of infected people assumed to die.
	FatalityRatio float64
}

// Validate checks the rates and the fatality ratio.
func (s Scenario) Validate() error {
	if err := s.Params.Validate(s.Name); err != nil {
		return err
	}
	if math.IsNaN(s.FatalityRatio) || s.FatalityRatio < 0 || s.FatalityRatio > 1 {
		return apperrors.ValidationError{Field: s.Name + "-fatality", Message: "fatality ratio must lie in [0, 1]"}
	}
	return nil
}

// BubonicPlague returns the plague scenario with modern fatality estimates
// (about 10% with treatment, against roughly 60% historically).
func BubonicPlague() Scenario {
	return Scenario{
		Name:          "plague",
		DisplayName:   "Bubonic Plague",
		Params:        Params{Beta: 0.3, Gamma: 0.1},
		FatalityRatio: 0.10,
	}
}

// Covid19 returns the high-transmission COVID-19 scenario.
func Covid19() Scenario {
	return Scenario{
		Name:          "covid",
		DisplayName:   "COVID-19",
		Params:        Params{Beta: 0.5, Gamma: 0.1},
		FatalityRatio: 0.014,
	}
}

// DefaultScenarios returns the scenarios compared by default, in report order.
func DefaultScenarios() []Scenario {
	return []Scenario{BubonicPlague(), Covid19()}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
