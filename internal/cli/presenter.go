package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/orchestration"
	"github.com/agbru/sircompare/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output. The report goes to the writer handed to PresentResult; failures
// are written to ErrOut (os.Stderr when nil).
type CLIResultPresenter struct {
	ErrOut io.Writer
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentResult writes the report block of a successful scenario.
func (CLIResultPresenter) PresentResult(result orchestration.ScenarioResult, details bool, out io.Writer) {
	DisplayReport(out, result, details)
}

// HandleError reports a failed scenario and returns its exit code.
func (p CLIResultPresenter) HandleError(result orchestration.ScenarioResult, _ io.Writer) int {
	errOut := p.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}
	code := apperrors.ExitCodeFor(result.Err)
	switch code {
	case apperrors.ExitErrorTimeout:
		var timeoutErr apperrors.TimeoutError
		if errors.As(result.Err, &timeoutErr) {
			fmt.Fprintf(errOut, "%sSimulation of %s timed out after %s.%s\n", ui.ColorYellow(), result.Scenario.DisplayName, timeoutErr.Limit, ui.ColorReset())
			break
		}
		fmt.Fprintf(errOut, "%sSimulation of %s timed out: %v%s\n", ui.ColorYellow(), result.Scenario.DisplayName, result.Err, ui.ColorReset())
	case apperrors.ExitErrorCanceled:
		fmt.Fprintf(errOut, "%sSimulation of %s canceled.%s\n", ui.ColorYellow(), result.Scenario.DisplayName, ui.ColorReset())
	default:
		fmt.Fprintf(errOut, "%sError: %v%s\n", ui.ColorRed(), result.Err, ui.ColorReset())
	}
	return code
}
