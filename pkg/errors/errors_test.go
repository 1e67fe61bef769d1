// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, joining and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/cirules/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "workflow_filter",
			code:    errors.ErrFilteredByWorkflow,
			message: "Pipeline filtered out by workflow rules.",
			wantStr: "[FILTERED_BY_WORKFLOW_RULES] Pipeline filtered out by workflow rules.",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidCompareToRef, "Failed to parse rule for %s: %s", "job1", "rules:changes:compare_to is not a valid ref")

	want := "Failed to parse rule for job1: rules:changes:compare_to is not a valid ref"
	if err.Message != want {
		t.Errorf("Newf() message = %q, want %q", err.Message, want)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrRepository, "diff failed")

		if err.Code != errors.ErrRepository {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrRepository)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[REPOSITORY] diff failed: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrInvalidCompareToRef, "bad ref").
		WithDetail("job", "job1").
		WithDetail("ref", "invalid-branch")

	if err.Details["job"] != "job1" {
		t.Errorf("WithDetail() job = %v, want %v", err.Details["job"], "job1")
	}

	if err.Details["ref"] != "invalid-branch" {
		t.Errorf("WithDetail() ref = %v, want %v", err.Details["ref"], "invalid-branch")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNoStagesOrJobs, "error 1")
	err2 := errors.New(errors.ErrNoStagesOrJobs, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with Error")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrMissingStartIn, "missing"),
			code:     errors.ErrMissingStartIn,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrMissingStartIn, "missing"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "joined_errors",
			err:      stderrors.Join(errors.New(errors.ErrExpressionSyntax, "a"), errors.New(errors.ErrMissingStartIn, "b")),
			code:     errors.ErrExpressionSyntax,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrStore, "x")); got != errors.ErrStore {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrStore)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestMessages(t *testing.T) {
	joined := stderrors.Join(
		errors.New(errors.ErrExpressionSyntax, "Failed to parse rule for a: unexpected token"),
		stderrors.New("plain failure"),
		errors.Wrap(stderrors.New("cause"), errors.ErrMissingStartIn, "Failed to parse rule for b: missing start_in"),
	)

	got := errors.Messages(joined)
	want := []string{
		"Failed to parse rule for a: unexpected token",
		"plain failure",
		"Failed to parse rule for b: missing start_in",
	}
	if len(got) != len(want) {
		t.Fatalf("Messages() len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Messages()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if errors.Messages(nil) != nil {
		t.Error("Messages(nil) should be nil")
	}
}
