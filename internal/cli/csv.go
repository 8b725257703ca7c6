package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agbru/sircompare/internal/analysis"
	"github.com/agbru/sircompare/internal/orchestration"
)

// SeriesCSVHeader is the header row of the series export.
var SeriesCSVHeader = []string{"scenario", "day", "susceptible", "infected", "recovered", "estimated_deaths"}

// EncodeSeriesCSV writes one row per sample of every successful scenario.
func EncodeSeriesCSV(w io.Writer, results []orchestration.ScenarioResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SeriesCSVHeader); err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil || res.Trajectory == nil {
			continue
		}
		tr := res.Trajectory
		deaths := analysis.EstimatedDeaths(tr, res.Scenario.FatalityRatio)
		for k := 0; k < tr.Len(); k++ {
			st := tr.At(k)
			row := []string{
				res.Scenario.Name,
				formatFloat(tr.Time(k)),
				formatFloat(st.S),
				formatFloat(st.I),
				formatFloat(st.R),
				formatFloat(deaths[k]),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeriesCSV writes the series export to path, creating parent
// directories as needed. An empty path is a no-op.
func WriteSeriesCSV(path string, results []orchestration.ScenarioResult) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create series file: %w", err)
	}
	if err := EncodeSeriesCSV(file, results); err != nil {
		file.Close()
		return fmt.Errorf("failed to write series file: %w", err)
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
