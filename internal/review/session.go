// Package review tracks an operator's decisions on the issues of one
// validation run: fixing, ignoring or overriding single issues and deleting
// whole rows. The pending list is always derived from the recorded
// decisions, never stored.
package review

import (
	"errors"
	"fmt"
	"slices"

	"github.com/eykd/adsheet-go/internal/domain"
)

// ErrUnknownIssue is returned when a decision names an issue the run did
// not report.
var ErrUnknownIssue = errors.New("unknown issue")

// ErrNoSuggestedFix is returned by Fix for an issue without a suggestion.
var ErrNoSuggestedFix = errors.New("issue has no suggested fix")

// Status records how an issue was handled.
type Status string

const (
	StatusFixed      Status = "fixed"
	StatusIgnored    Status = "ignored"
	StatusOverridden Status = "overridden"
	StatusRemoved    Status = "removed"
)

// Session holds the working table and the decisions taken so far.
type Session struct {
	result  *domain.ValidationResult
	table   domain.Table
	handled map[string]Status
	deleted map[int]bool
}

// NewSession starts a review of result over a copy of verified.
func NewSession(result *domain.ValidationResult, verified domain.Table) *Session {
	return &Session{
		result:  result,
		table:   verified.Clone(),
		handled: make(map[string]Status),
		deleted: make(map[int]bool),
	}
}

func (s *Session) issue(id string) (domain.Issue, error) {
	is, ok := s.result.IssueByID(id)
	if !ok {
		return domain.Issue{}, fmt.Errorf("%w: %s", ErrUnknownIssue, id)
	}
	return is, nil
}

// Fix writes the issue's suggestion into the working table: the literal of
// a quoted suggestion, or the first value of an allowed-values suggestion.
func (s *Session) Fix(id string) error {
	is, err := s.issue(id)
	if err != nil {
		return err
	}
	if literal, ok := domain.UnquoteFix(is.SuggestedFix); ok {
		s.table.SetCell(is.RowIndex, is.Column, domain.Str(literal))
	} else if first, ok := domain.FirstAllowedValue(is.SuggestedFix); ok {
		s.table.SetCell(is.RowIndex, is.Column, domain.Str(first))
	} else {
		return fmt.Errorf("%w: %s", ErrNoSuggestedFix, id)
	}
	s.handled[id] = StatusFixed
	return nil
}

// Ignore accepts the issue without changing the table.
func (s *Session) Ignore(id string) error {
	if _, err := s.issue(id); err != nil {
		return err
	}
	s.handled[id] = StatusIgnored
	return nil
}

// Override writes an operator-supplied value into the issue's cell.
func (s *Session) Override(id string, v domain.Value) error {
	is, err := s.issue(id)
	if err != nil {
		return err
	}
	s.table.SetCell(is.RowIndex, is.Column, v)
	s.handled[id] = StatusOverridden
	return nil
}

// DeleteRow drops a row from the export and marks all of its issues removed.
func (s *Session) DeleteRow(row int) error {
	if row < 0 || row >= s.table.Len() {
		return fmt.Errorf("row %d out of range (table has %d rows)", row, s.table.Len())
	}
	s.deleted[row] = true
	for _, is := range s.result.IssuesForRow(row) {
		s.handled[is.ID] = StatusRemoved
	}
	return nil
}

// Status returns how an issue was handled, if it was.
func (s *Session) Status(id string) (Status, bool) {
	st, ok := s.handled[id]
	return st, ok
}

// CellCheck validates one cell of the working table.
type CellCheck func(row int, column string, t domain.Table) ([]domain.Issue, error)

type cellRef struct {
	row    int
	column string
}

// Recheck runs check once on every cell written by Fix or Override, in
// report order, and returns the issues the new values raise. Issues still
// pending from the original run are left out since they are already
// reported.
func (s *Session) Recheck(check CellCheck) ([]domain.Issue, error) {
	pending := make(map[string]bool)
	for _, is := range s.Pending() {
		pending[is.ID] = true
	}

	out := []domain.Issue{}
	done := make(map[cellRef]bool)
	for _, is := range s.result.Issues {
		st, ok := s.Status(is.ID)
		if !ok || (st != StatusFixed && st != StatusOverridden) || s.deleted[is.RowIndex] {
			continue
		}
		ref := cellRef{is.RowIndex, is.Column}
		if done[ref] {
			continue
		}
		done[ref] = true

		found, err := check(ref.row, ref.column, s.table)
		if err != nil {
			return nil, fmt.Errorf("rechecking row %d column %q: %w", ref.row, ref.column, err)
		}
		for _, f := range found {
			if !pending[f.ID] {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// Pending returns the issues still awaiting a decision, in report order.
func (s *Session) Pending() []domain.Issue {
	out := []domain.Issue{}
	for _, is := range s.result.Issues {
		if _, done := s.handled[is.ID]; done || s.deleted[is.RowIndex] {
			continue
		}
		out = append(out, is)
	}
	return out
}

// Handled returns the number of issues with a recorded decision.
func (s *Session) Handled() int { return len(s.handled) }

// DeletedRows returns the deleted row indices in ascending order.
func (s *Session) DeletedRows() []int {
	rows := make([]int, 0, len(s.deleted))
	for r := range s.deleted {
		rows = append(rows, r)
	}
	slices.Sort(rows)
	return rows
}

// Table returns the working table, deleted rows included.
func (s *Session) Table() domain.Table { return s.table }

// Export returns the working table without deleted rows.
func (s *Session) Export() domain.Table {
	return s.table.WithoutRows(s.deleted)
}
