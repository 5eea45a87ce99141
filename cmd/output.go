package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/mismatch"
)

// writeJSON encodes v as JSON to w, handling I/O errors at the boundary.
func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}

// formatIssuesHuman writes one line per issue:
//
//	row 3 [BLOCKER] Headline (len): Length is 250 characters -> "Shorter..."
func formatIssuesHuman(w io.Writer, issues []domain.Issue) {
	for _, is := range issues {
		fmt.Fprintf(w, "row %d [%s] %s (%s): %s", is.RowIndex, is.Severity, is.Column, is.Kind, is.Message)
		if is.SuggestedFix != "" {
			fmt.Fprintf(w, " -> %s", is.SuggestedFix)
		}
		fmt.Fprintln(w)
	}
}

func formatFlagsHuman(w io.Writer, flags []mismatch.Flag) {
	if len(flags) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s possible content mismatches:\n", humanize.Comma(int64(len(flags))))
	for _, f := range flags {
		fmt.Fprintf(w, "row %d [%s %.0f%%] %s (%s): %s", f.Row, f.Tier, f.Confidence*100, f.Column, f.Type, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(w, " -> %s", f.Suggestion)
		}
		fmt.Fprintln(w)
	}
}

func formatSummaryHuman(w io.Writer, platform string, s domain.SummaryStats) {
	fmt.Fprintf(w, "\n%s: %s rows checked, %s clean, %s with issues (%s blockers, %s warnings)\n",
		platform,
		humanize.Comma(int64(s.TotalRows)),
		humanize.Comma(int64(s.CleanRows)),
		humanize.Comma(int64(s.RowsWithIssues)),
		humanize.Comma(int64(s.SeverityCounts[domain.SeverityBlocker])),
		humanize.Comma(int64(s.SeverityCounts[domain.SeverityWarning])),
	)
}

func formatWrittenHuman(w io.Writer, f *WrittenFile) {
	if f == nil {
		return
	}
	fmt.Fprintf(w, "wrote %s rows to %s (%s)\n", humanize.Comma(int64(f.Rows)), f.Path, humanize.Bytes(uint64(f.Bytes)))
}

// issuesError returns an IssuesDetectedError when issues include blockers.
func issuesError(issues []domain.Issue) error {
	var blockers, warnings int
	for _, is := range issues {
		if is.Severity == domain.SeverityBlocker {
			blockers++
		} else {
			warnings++
		}
	}
	if blockers == 0 {
		return nil
	}
	return &IssuesDetectedError{Blockers: blockers, Warnings: warnings}
}
