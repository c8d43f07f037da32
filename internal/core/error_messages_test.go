package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "wrapped source not found",
			err:      fmt.Errorf("%w: Projects.csv", ErrSourceNotFound),
			wantCode: "FILE001",
		},
		{
			name:     "empty source",
			err:      fmt.Errorf("read header: %w", ErrEmptySource),
			wantCode: "FILE002",
		},
		{
			name:     "busy owner",
			err:      ErrRunInProgress,
			wantCode: "RUN001",
		},
		{
			name:     "declined truncate",
			err:      fmt.Errorf("projects: %w", ErrTruncateDeclined),
			wantCode: "RUN002",
		},
		{
			name:     "conflicting options",
			err:      fmt.Errorf("%w: file with all", ErrInvalidOption),
			wantCode: "RUN006",
		},
		{
			name:     "cancelled load",
			err:      fmt.Errorf("load tasks: %w", context.Canceled),
			wantCode: "RUN005",
		},
		{
			name:     "deadline is a timeout",
			err:      fmt.Errorf("truncate tasks: %w", context.DeadlineExceeded),
			wantCode: "DB003",
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode: "DB001",
		},
		{
			name:     "foreign key",
			err:      errors.New("ERROR: insert or update on table \"gtd_tasks\" violates foreign key constraint"),
			wantCode: "DB005",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("DEADLOCK detected"),
			wantCode: "DB004",
		},
		{
			name:     "sentinel wins over pattern text",
			err:      fmt.Errorf("%w: timeout.csv", ErrSourceNotFound),
			wantCode: "FILE001",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrRunInProgress)

	expected := "Another import is running for this owner (Code: RUN001). Wait for it to finish and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrQueueFull, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
