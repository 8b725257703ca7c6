package epidemic

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/agbru/sircompare/internal/errors"
)

func TestModelDerivative(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		model  Model
		state  State
		expect [3]float64
	}{
		{
			name:   "initial plague state",
			model:  Model{Population: 1000, Params: Params{Beta: 0.3, Gamma: 0.1}},
			state:  State{S: 999, I: 1},
			expect: [3]float64{-0.2997, 0.1997, 0.1},
		},
		{
			name:   "no infected",
			model:  Model{Population: 1000, Params: Params{Beta: 0.5, Gamma: 0.1}},
			state:  State{S: 1000},
			expect: [3]float64{0, 0, 0},
		},
		{
			name:   "no susceptible",
			model:  Model{Population: 100, Params: Params{Beta: 0.5, Gamma: 0.2}},
			state:  State{I: 50, R: 50},
			expect: [3]float64{0, -10, 10},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dydt := make([]float64, Compartments)
			tc.model.Derivative(0, tc.state.Vector(), dydt)
			for k, want := range tc.expect {
				if math.Abs(dydt[k]-want) > 1e-12 {
					t.Errorf("component %d = %v, want %v", k, dydt[k], want)
				}
			}
			if sum := dydt[0] + dydt[1] + dydt[2]; math.Abs(sum) > 1e-12 {
				t.Errorf("derivatives sum to %v, want 0", sum)
			}
		})
	}
}

func TestParamsR0(t *testing.T) {
	t.Parallel()
	if got := BubonicPlague().Params.R0(); math.Abs(got-3) > 1e-12 {
		t.Errorf("plague R0 = %v, want 3", got)
	}
	if got := Covid19().Params.R0(); math.Abs(got-5) > 1e-12 {
		t.Errorf("covid R0 = %v, want 5", got)
	}
}

func TestScenarioValidate(t *testing.T) {
	t.Parallel()
	withParams := func(beta, gamma, ratio float64) Scenario {
		sc := BubonicPlague()
		sc.Params = Params{Beta: beta, Gamma: gamma}
		sc.FatalityRatio = ratio
		return sc
	}
	tests := []struct {
		name  string
		sc    Scenario
		field string
	}{
		{"default plague", BubonicPlague(), ""},
		{"default covid", Covid19(), ""},
		{"zero beta", withParams(0, 0.1, 0.1), "plague-beta"},
		{"negative gamma", withParams(0.3, -1, 0.1), "plague-gamma"},
		{"infinite beta", withParams(math.Inf(1), 0.1, 0.1), "plague-beta"},
		{"nan gamma", withParams(0.3, math.NaN(), 0.1), "plague-gamma"},
		{"fatality above one", withParams(0.3, 0.1, 1.5), "plague-fatality"},
		{"negative fatality", withParams(0.3, 0.1, -0.1), "plague-fatality"},
		{"fatality bounds inclusive", withParams(0.3, 0.1, 1), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.sc.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestDefaultScenariosOrder(t *testing.T) {
	t.Parallel()
	scs := DefaultScenarios()
	if len(scs) != 2 || scs[0].DisplayName != "Bubonic Plague" || scs[1].DisplayName != "COVID-19" {
		t.Fatalf("unexpected default scenarios: %+v", scs)
	}
}
