package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/sircompare/internal/epidemic"
)

func randomRun(population, beta, gamma float64) (*epidemic.Trajectory, error) {
	cfg := epidemic.DefaultSimulationConfig()
	cfg.Population = population
	sc := epidemic.Scenario{
		Name:          "random",
		DisplayName:   "Random",
		Params:        epidemic.Params{Beta: beta, Gamma: gamma},
		FatalityRatio: 0.05,
	}
	return epidemic.Simulate(context.Background(), sc, cfg)
}

// TestSIRInvariants_PropertyBased checks, over random populations and rates,
// that the sampled solution conserves the population, that S never grows,
// that R never shrinks and that the reported totals stay within [0, N].
func TestSIRInvariants_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	populations := gen.Float64Range(1e3, 1e7)
	betas := gen.Float64Range(0.05, 1)
	gammas := gen.Float64Range(0.05, 0.5)

	properties.Property("S+I+R stays at N", prop.ForAll(
		func(n, beta, gamma float64) bool {
			tr, err := randomRun(n, beta, gamma)
			if err != nil {
				t.Logf("Simulate(N=%v, beta=%v, gamma=%v): %v", n, beta, gamma, err)
				return false
			}
			for k := 0; k < tr.Len(); k++ {
				if math.Abs(tr.At(k).Total()-n) > 1e-9*n {
					return false
				}
			}
			return true
		},
		populations, betas, gammas,
	))

	properties.Property("S is non-increasing and R non-decreasing", prop.ForAll(
		func(n, beta, gamma float64) bool {
			tr, err := randomRun(n, beta, gamma)
			if err != nil {
				return false
			}
			tol := 1e-9 * n
			for k := 1; k < tr.Len(); k++ {
				prev, cur := tr.At(k-1), tr.At(k)
				if cur.S > prev.S+tol || cur.R < prev.R-tol {
					return false
				}
			}
			return true
		},
		populations, betas, gammas,
	))

	properties.Property("totals lie within [0, N]", prop.ForAll(
		func(n, beta, gamma float64) bool {
			tr, err := randomRun(n, beta, gamma)
			if err != nil {
				return false
			}
			s := Summarize(tr, 0.05)
			tol := 1e-6 * n
			return s.TotalInfected >= -tol && s.TotalInfected <= n+tol &&
				s.PeakInfected >= 0 && s.PeakInfected <= n+tol &&
				s.TotalDeaths == 0.05*s.TotalInfected
		},
		populations, betas, gammas,
	))

	properties.TestingRun(t)
}
