// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayReport], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatReport].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteSeriesCSV].

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/sircompare/internal/format"
	"github.com/agbru/sircompare/internal/orchestration"
)

// FormatReport renders the final-results block of one scenario, blank
// line included. Counts are rounded half to even.
//
// With details, R0, the end-of-horizon compartments and the solver work are
// appended before the blank line.
func FormatReport(res orchestration.ScenarioResult, details bool) string {
	var b strings.Builder
	s := res.Summary
	sc := res.Scenario

	fmt.Fprintf(&b, "%s Final Results:\n", sc.DisplayName)
	fmt.Fprintf(&b, "Total Infected: %.0f\n", s.TotalInfected)
	fmt.Fprintf(&b, "Total Deaths (%s%% fatality): %.0f\n", format.FormatPercent(sc.FatalityRatio), s.TotalDeaths)
	fmt.Fprintf(&b, "Peak Infection Day: %.0f\n", s.PeakDay)
	fmt.Fprintf(&b, "Peak Infected: %.0f\n", s.PeakInfected)
	fmt.Fprintf(&b, "Deaths at Peak: %.0f\n", s.DeathsAtPeak)

	if details {
		fmt.Fprintf(&b, "R0: %.2f\n", sc.Params.R0())
		fmt.Fprintf(&b, "Final Susceptible: %s\n", format.FormatCount(s.Final.S))
		fmt.Fprintf(&b, "Final Infected: %s\n", format.FormatCount(s.Final.I))
		fmt.Fprintf(&b, "Final Recovered: %s\n", format.FormatCount(s.Final.R))
		if res.Trajectory != nil {
			st := res.Trajectory.Stats()
			fmt.Fprintf(&b, "Solver: %d steps (%d rejected), %d evaluations in %s\n",
				st.Steps, st.Rejected, st.Evaluations, format.FormatExecutionDuration(res.Duration))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// DisplayReport writes the report block of one scenario to out.
func DisplayReport(out io.Writer, res orchestration.ScenarioResult, details bool) {
	fmt.Fprint(out, FormatReport(res, details))
}
