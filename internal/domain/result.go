package domain

// SummaryStats aggregates a validation run.
type SummaryStats struct {
	TotalRows      int              `json:"total_rows"`
	CleanRows      int              `json:"clean_rows"`
	RowsWithIssues int              `json:"rows_with_issues"`
	TotalIssues    int              `json:"total_issues"`
	SeverityCounts map[Severity]int `json:"severity_counts"`
}

// ValidationResult is the output of one validation run.
type ValidationResult struct {
	Platform string       `json:"platform"`
	Issues   []Issue      `json:"issues"`
	Summary  SummaryStats `json:"summary"`
}

// Summarize derives SummaryStats from a row count and the issues found.
// Both severity keys are always present.
func Summarize(totalRows int, issues []Issue) SummaryStats {
	rows := make(map[int]struct{})
	counts := map[Severity]int{SeverityBlocker: 0, SeverityWarning: 0}
	for _, is := range issues {
		rows[is.RowIndex] = struct{}{}
		counts[is.Severity]++
	}
	return SummaryStats{
		TotalRows:      totalRows,
		CleanRows:      totalRows - len(rows),
		RowsWithIssues: len(rows),
		TotalIssues:    len(issues),
		SeverityCounts: counts,
	}
}

// IssueByID returns the issue with the given ID.
func (r ValidationResult) IssueByID(id string) (Issue, bool) {
	for _, is := range r.Issues {
		if is.ID == id {
			return is, true
		}
	}
	return Issue{}, false
}

// IssuesForRow returns the issues of one row in report order.
func (r ValidationResult) IssuesForRow(row int) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.RowIndex == row {
			out = append(out, is)
		}
	}
	return out
}

// HasBlockers reports whether any issue is a BLOCKER.
func (r ValidationResult) HasBlockers() bool {
	return r.Summary.SeverityCounts[SeverityBlocker] > 0
}
