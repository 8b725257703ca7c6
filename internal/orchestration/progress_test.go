package orchestration

import (
	"testing"
	"time"

	"github.com/agbru/sircompare/internal/progress"
)

func TestNewProgressAggregator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n     int
		isNil bool
	}{
		{3, false},
		{1, false},
		{0, true},
		{-1, true},
	}
	for _, tc := range tests {
		agg := NewProgressAggregator(tc.n)
		if (agg == nil) != tc.isNil {
			t.Fatalf("NewProgressAggregator(%d) nil = %v, want %v", tc.n, agg == nil, tc.isNil)
		}
		if agg != nil && agg.Average() != 0 {
			t.Errorf("NewProgressAggregator(%d): Average = %f, want 0", tc.n, agg.Average())
		}
	}
}

func TestProgressAggregator_Update(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator(2)

	ap := agg.Update(progress.ProgressUpdate{ScenarioIndex: 0, Value: 0.5})
	if ap.ScenarioIndex != 0 || ap.Value != 0.5 {
		t.Errorf("unexpected update echo %+v", ap)
	}
	if ap.AverageProgress != 0.25 {
		t.Errorf("expected AverageProgress=0.25, got %f", ap.AverageProgress)
	}

	// Stale and out-of-range updates do not move the average.
	agg.Update(progress.ProgressUpdate{ScenarioIndex: 0, Value: 0.1})
	agg.Update(progress.ProgressUpdate{ScenarioIndex: 7, Value: 1})
	if got := agg.Average(); got != 0.25 {
		t.Errorf("expected Average=0.25 after ignored updates, got %f", got)
	}

	agg.Update(progress.ProgressUpdate{ScenarioIndex: 1, Value: 1.5})
	if got := agg.Average(); got != 0.75 {
		t.Errorf("expected Average=0.75, got %f", got)
	}
}

func TestProgressAggregator_ETA(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator(1)
	base := time.Unix(0, 0)
	agg.started = base
	agg.now = func() time.Time { return base.Add(10 * time.Second) }

	if eta := agg.ETA(); eta != 0 {
		t.Errorf("ETA without progress = %v, want 0", eta)
	}
	ap := agg.Update(progress.ProgressUpdate{ScenarioIndex: 0, Value: 0.25})
	if ap.ETA != 30*time.Second {
		t.Errorf("ETA = %v, want 30s", ap.ETA)
	}
	agg.Update(progress.ProgressUpdate{ScenarioIndex: 0, Value: 1})
	if eta := agg.ETA(); eta != 0 {
		t.Errorf("ETA when done = %v, want 0", eta)
	}
}

func TestDrainChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan progress.ProgressUpdate, 3)
	ch <- progress.ProgressUpdate{Value: 0.1}
	ch <- progress.ProgressUpdate{Value: 0.2}
	close(ch)
	DrainChannel(ch)
	if len(ch) != 0 {
		t.Errorf("channel not drained, %d left", len(ch))
	}
}
