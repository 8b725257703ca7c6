// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--samples"),
			expected: "invalid value 42 for flag --samples",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "plague-beta", Message: "must be positive"}
	want := `validation error for "plague-beta": must be positive`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestSolverError(t *testing.T) {
	t.Parallel()
	cause := errors.New("required step size is less than spacing between numbers")
	err := SolverError{Scenario: "plague", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	want := `scenario "plague": required step size is less than spacing between numbers`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "simulation", Limit: 2 * time.Second}
	want := `operation "simulation" timed out after 2s`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("nil error stays nil", func(t *testing.T) {
		t.Parallel()
		if WrapError(nil, "context %d", 1) != nil {
			t.Error("WrapError(nil) should return nil")
		}
	})

	t.Run("wrapped error keeps chain", func(t *testing.T) {
		t.Parallel()
		base := errors.New("disk full")
		err := WrapError(base, "writing %s", "plot.png")
		if !errors.Is(err, base) {
			t.Error("wrapped error should match base with errors.Is")
		}
		if err.Error() != "writing plot.png: disk full" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("solve: %w", context.DeadlineExceeded), true},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "samples", Message: "too small"}, ExitErrorConfig},
		{"solver", SolverError{Scenario: "covid", Cause: errors.New("diverged")}, ExitErrorSolver},
		{"solver wrapping deadline", SolverError{Scenario: "covid", Cause: context.DeadlineExceeded}, ExitErrorTimeout},
		{"solver wrapping cancel", SolverError{Scenario: "covid", Cause: context.Canceled}, ExitErrorCanceled},
		{"timeout", TimeoutError{Operation: "run", Limit: time.Second}, ExitErrorTimeout},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
