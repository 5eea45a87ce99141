package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestContextError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ContextError
		want string
	}{
		{
			name: "op and path",
			err:  &ContextError{Op: "locking", Path: "out/clean.csv", Err: errors.New("permission denied")},
			want: "locking: out/clean.csv: permission denied",
		},
		{
			name: "op only",
			err:  &ContextError{Op: "applying decisions", Err: errors.New("unknown issue")},
			want: "applying decisions: unknown issue",
		},
		{
			name: "path only",
			err:  &ContextError{Path: "ads.csv", Err: errors.New("not found")},
			want: "ads.csv: not found",
		},
		{
			name: "error only",
			err:  &ContextError{Err: errors.New("unknown error")},
			want: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextError_Unwrap(t *testing.T) {
	inner := errors.New("inner error")
	err := &ContextError{Op: "read", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ContextError should unwrap to inner error")
	}
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"blocking issues", &IssuesDetectedError{Blockers: 2, Warnings: 1}, 2},
		{"broken ruleset", &LintFailedError{Failed: 1}, 2},
		{"wrapped exit coder", &ContextError{Op: "review", Err: &IssuesDetectedError{Blockers: 1}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFromError(tt.err); got != tt.want {
				t.Errorf("ExitCodeFromError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIssuesDetectedError_Message(t *testing.T) {
	err := &IssuesDetectedError{Blockers: 3, Warnings: 4}

	if got, want := err.Error(), "found 3 blockers, 4 warnings"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFormatError(t *testing.T) {
	got := FormatError(errors.New("something failed"))

	if want := "adsheet: something failed\n"; got != want {
		t.Errorf("FormatError() = %q, want %q", got, want)
	}
}

func TestRunCLI(t *testing.T) {
	tests := []struct {
		name     string
		runErr   error
		wantCode int
		wantErr  string
	}{
		{"success", nil, 0, ""},
		{"plain failure", errors.New("disk full"), 1, "adsheet: disk full\n"},
		{"blocking issues", &IssuesDetectedError{Blockers: 1}, 2, "adsheet: found 1 blockers, 0 warnings\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cobra.Command{
				Use:           "x",
				SilenceUsage:  true,
				SilenceErrors: true,
				RunE: func(cmd *cobra.Command, args []string) error {
					cmd.Print("ran")
					return tt.runErr
				},
			}
			var stdout, stderr bytes.Buffer

			code := RunCLI(c, nil, &stdout, &stderr)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), "ran") {
				t.Errorf("stdout = %q, want command output", stdout.String())
			}
			if stderr.String() != tt.wantErr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantErr)
			}
		})
	}
}
