package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"malformed", AtLine(ErrMalformedInput, 3, "bad json"), ExitBadInput},
		{"missing key", New(ErrMissingKey, "text"), ExitBadInput},
		{"wrapped resource", fmt.Errorf("opening: %w", New(ErrResourceUnavailable, "x")), ExitResource},
		{"analyzer", ErrAnalyzerUnavailable, ExitDependency},
		{"sink", ErrSinkFailed, ExitDependency},
		{"config", ErrInvalidConfig, ExitConfigError},
		{"other", errors.New("boom"), ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := AtLine(ErrMissingKey, 7, "object has no %q", "text")
	want := `missing key: line 7: object has no "text"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if LineOf(fmt.Errorf("wrapped: %w", err)) != 7 {
		t.Errorf("LineOf lost the line number through wrapping")
	}
	if Kind(err) != "missing_key" {
		t.Errorf("Kind() = %q", Kind(err))
	}
}
