//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/sircompare/internal/format"
	"github.com/agbru/sircompare/internal/orchestration"
	"github.com/agbru/sircompare/internal/progress"
	"github.com/agbru/sircompare/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 100 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix goes through Lock so the animation goroutine never reads a
// half-written suffix.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for running scenarios.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numScenarios int, out io.Writer) {
	DisplayProgress(wg, progressChan, numScenarios, out)
}

// DisplayProgress consumes progress updates until progressChan is closed,
// refreshing a spinner on out at ProgressRefreshRate.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numScenarios int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numScenarios)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(0, 0, numScenarios))
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(progressSuffix(1, 0, numScenarios))
				s.Stop()
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg.Average(), agg.ETA(), numScenarios))
		}
	}
}

// progressSuffix renders the text shown after the spinner.
func progressSuffix(avg float64, eta time.Duration, numScenarios int) string {
	label := "scenario"
	if numScenarios > 1 {
		label = "scenarios"
	}
	suffix := fmt.Sprintf(" Simulating %d %s %s%s%s %5.1f%%",
		numScenarios, label, ui.ColorCyan(), progressBar(avg, ProgressBarWidth), ui.ColorReset(), avg*100)
	if eta > 0 {
		suffix += " ETA " + format.FormatExecutionDuration(eta)
	}
	return suffix
}

// progressBar renders progress in [0, 1] as a bar of length runes.
func progressBar(progress float64, length int) string {
	progress = max(0, min(progress, 1))
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
