package epidemic

import (
	"context"
	"errors"
	"math"
	"testing"

	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/ode"
)

func TestSimulateDefaults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		sc         Scenario
		finalS     float64
		peakIndex  int
		peakInfect float64
		steps      int
		rejected   int
	}{
		{BubonicPlague(), DefaultPopulation - 685877.699, 71, 219627.32, 21, 0},
		{Covid19(), DefaultPopulation - 723945.07, 37, 348080.80, 27, 2},
	}
	for _, tc := range tests {
		t.Run(tc.sc.Name, func(t *testing.T) {
			t.Parallel()
			tr, err := Simulate(context.Background(), tc.sc, DefaultSimulationConfig())
			if err != nil {
				t.Fatalf("Simulate: %v", err)
			}
			if tr.Len() != DefaultSamples {
				t.Fatalf("Len = %d, want %d", tr.Len(), DefaultSamples)
			}
			if tr.Time(0) != 0 || tr.Time(tr.Len()-1) != DefaultEnd {
				t.Errorf("horizon = [%v, %v], want [0, 160]", tr.Time(0), tr.Time(tr.Len()-1))
			}
			if got := tr.Final().S; math.Abs(got-tc.finalS) > 0.01 {
				t.Errorf("final S = %.4f, want %.4f", got, tc.finalS)
			}
			if got := tr.At(tc.peakIndex).I; math.Abs(got-tc.peakInfect) > 0.01 {
				t.Errorf("I at sample %d = %.4f, want %.4f", tc.peakIndex, got, tc.peakInfect)
			}
			st := tr.Stats()
			if st.Steps != tc.steps || st.Rejected != tc.rejected {
				t.Errorf("stats = %+v, want %d steps and %d rejected", st, tc.steps, tc.rejected)
			}
		})
	}
}

func TestSimulateInvariants(t *testing.T) {
	t.Parallel()
	for _, sc := range DefaultScenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			t.Parallel()
			tr, err := Simulate(context.Background(), sc, DefaultSimulationConfig())
			if err != nil {
				t.Fatalf("Simulate: %v", err)
			}
			for k := 0; k < tr.Len(); k++ {
				st := tr.At(k)
				if d := math.Abs(st.Total() - DefaultPopulation); d > 1e-6 {
					t.Fatalf("sample %d: S+I+R off by %v", k, d)
				}
				if k == 0 {
					continue
				}
				prev := tr.At(k - 1)
				if st.S > prev.S+1e-6 {
					t.Errorf("sample %d: S increased from %v to %v", k, prev.S, st.S)
				}
				if st.R < prev.R-1e-6 {
					t.Errorf("sample %d: R decreased from %v to %v", k, prev.R, st.R)
				}
			}
		})
	}
}

func TestSimulateInitialState(t *testing.T) {
	t.Parallel()
	tr, err := Simulate(context.Background(), Covid19(), DefaultSimulationConfig())
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if got := tr.At(0); got != (State{S: DefaultPopulation - 1, I: 1}) {
		t.Errorf("initial state = %+v", got)
	}
}

func TestTrajectoryAccessorsCopy(t *testing.T) {
	t.Parallel()
	tr := NewTrajectory(10, []float64{0, 1}, []float64{9, 8}, []float64{1, 1}, []float64{0, 1})
	s := tr.Susceptible()
	s[0] = -1
	if tr.At(0).S != 9 {
		t.Error("mutating Susceptible() changed the trajectory")
	}
	times := tr.Times()
	times[1] = 42
	if tr.Time(1) != 1 {
		t.Error("mutating Times() changed the trajectory")
	}
	if tr.Population() != 10 || tr.Final() != (State{S: 8, I: 1, R: 1}) {
		t.Errorf("unexpected trajectory %+v", tr.Final())
	}
}

func TestSimulationConfigValidate(t *testing.T) {
	t.Parallel()
	mutate := func(f func(*SimulationConfig)) SimulationConfig {
		c := DefaultSimulationConfig()
		f(&c)
		return c
	}
	tests := []struct {
		name  string
		cfg   SimulationConfig
		field string
	}{
		{"defaults", DefaultSimulationConfig(), ""},
		{"zero population", mutate(func(c *SimulationConfig) { c.Population = 0 }), "population"},
		{"zero initial infected", mutate(func(c *SimulationConfig) { c.InitialInfected = 0 }), "initial-infected"},
		{"initial infected above population", mutate(func(c *SimulationConfig) { c.InitialInfected = c.Population + 1 }), "initial-infected"},
		{"whole population infected", mutate(func(c *SimulationConfig) { c.InitialInfected = c.Population }), ""},
		{"empty horizon", mutate(func(c *SimulationConfig) { c.End = c.Start }), "days"},
		{"one sample", mutate(func(c *SimulationConfig) { c.Samples = 1 }), "samples"},
		{"zero rtol", mutate(func(c *SimulationConfig) { c.Solver.RelTol = 0 }), "rtol"},
		{"negative atol", mutate(func(c *SimulationConfig) { c.Solver.AbsTol = -1 }), "atol"},
		{"negative max step", mutate(func(c *SimulationConfig) { c.Solver.MaxStep = -1 }), "max-step"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve apperrors.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("error = %v, want ValidationError for %q", err, tc.field)
			}
		})
	}
}

func TestReportTimes(t *testing.T) {
	t.Parallel()
	times := DefaultSimulationConfig().ReportTimes()
	if len(times) != 160 {
		t.Fatalf("len = %d", len(times))
	}
	if times[0] != 0 || times[159] != 160 {
		t.Errorf("endpoints = %v, %v", times[0], times[159])
	}
	if d := times[1] - times[0]; math.Abs(d-160.0/159.0) > 1e-12 {
		t.Errorf("spacing = %v, want 160/159", d)
	}
}

func TestSimulateCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, BubonicPlague(), DefaultSimulationConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSimulateRejectsInvalidScenario(t *testing.T) {
	t.Parallel()
	sc := Covid19()
	sc.Params.Gamma = 0
	if _, err := Simulate(context.Background(), sc, DefaultSimulationConfig()); err == nil {
		t.Fatal("expected validation error")
	}
	cfg := DefaultSimulationConfig()
	cfg.Solver = ode.Options{RelTol: 1e-3}
	if _, err := Simulate(context.Background(), Covid19(), cfg); err == nil {
		t.Fatal("expected tolerance error")
	}
}
