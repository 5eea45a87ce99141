package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ContextError adds operation and path context to an underlying error.
type ContextError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the formatted error string with context.
func (e *ContextError) Error() string {
	if e.Op != "" && e.Path != "" {
		return e.Op + ": " + e.Path + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + e.Err.Error()
	}
	if e.Path != "" {
		return e.Path + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ContextError) Unwrap() error {
	return e.Err
}

// ExitCoder is implemented by errors that carry a specific process exit code.
type ExitCoder interface {
	ExitCode() int
}

// IssuesDetectedError is returned when a run leaves blocking issues.
type IssuesDetectedError struct {
	Blockers int
	Warnings int
}

// Error implements the error interface.
func (e *IssuesDetectedError) Error() string {
	return fmt.Sprintf("found %d blockers, %d warnings", e.Blockers, e.Warnings)
}

// ExitCode returns the exit code for blocking issues (always 2).
func (e *IssuesDetectedError) ExitCode() int {
	return 2
}

// LintFailedError is returned by doctor when a ruleset does not load.
type LintFailedError struct {
	Failed int
}

// Error implements the error interface.
func (e *LintFailedError) Error() string {
	return fmt.Sprintf("%d ruleset(s) failed to load", e.Failed)
}

// ExitCode returns the exit code for broken rulesets (always 2).
func (e *LintFailedError) ExitCode() int {
	return 2
}

// ExitCodeFromError returns the appropriate exit code for an error.
// nil returns 0, ExitCoder errors return their code, all others return 1.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// FormatError formats an error with the "adsheet: " prefix and trailing newline.
func FormatError(err error) string {
	return fmt.Sprintf("adsheet: %s\n", err.Error())
}

// RunCLI executes the command with the given args, writing output to stdout
// and errors to stderr. It returns the appropriate exit code.
func RunCLI(cmd *cobra.Command, args []string, stdout io.Writer, stderr io.Writer) int {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprint(stderr, FormatError(err))
		return ExitCodeFromError(err)
	}
	return 0
}
