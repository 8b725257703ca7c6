package cli

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/sircompare/internal/epidemic"
	"github.com/agbru/sircompare/internal/orchestration"
)

func TestEncodeSeriesCSV(t *testing.T) {
	t.Parallel()
	tr := epidemic.NewTrajectory(100, []float64{0, 1}, []float64{99, 90}, []float64{1, 8}, []float64{0, 2})
	results := []orchestration.ScenarioResult{
		{Scenario: epidemic.BubonicPlague(), Trajectory: tr},
		{Scenario: epidemic.Covid19(), Err: errors.New("failed")},
	}

	var sb strings.Builder
	if err := EncodeSeriesCSV(&sb, results); err != nil {
		t.Fatalf("EncodeSeriesCSV: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "scenario,day,susceptible,infected,recovered,estimated_deaths" {
		t.Errorf("header = %v", rows[0])
	}
	want := []string{"plague", "1.000000", "90.000000", "8.000000", "2.000000", "0.800000"}
	if strings.Join(rows[2], ",") != strings.Join(want, ",") {
		t.Errorf("row = %v, want %v", rows[2], want)
	}
}

func TestWriteSeriesCSV(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if err := WriteSeriesCSV("", nil); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}

	path := filepath.Join(dir, "nested", "series.csv")
	tr := epidemic.NewTrajectory(10, []float64{0}, []float64{9}, []float64{1}, []float64{0})
	if err := WriteSeriesCSV(path, []orchestration.ScenarioResult{{Scenario: epidemic.Covid19(), Trajectory: tr}}); err != nil {
		t.Fatalf("WriteSeriesCSV: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(content), "covid,0.000000,9.000000,1.000000,0.000000,0.014000") {
		t.Errorf("unexpected content:\n%s", content)
	}
}
