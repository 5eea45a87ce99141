// Package engine provides the validation service: it resolves a platform's
// ruleset, checks every row of a table against it, and optionally applies
// declared fixes to a separate verified copy of the table.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eykd/adsheet-go/internal/checks"
	"github.com/eykd/adsheet-go/internal/detect"
	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/ruleset"
)

// Resolver abstracts looking up a platform's ruleset.
type Resolver interface {
	Resolve(platform string) (*ruleset.RuleSet, error)
}

// Options holds the thresholds for the advisory text checks.
type Options struct {
	CapsRatio      float64
	MaxEmoji       int
	MaxPunctuation int
	Logger         zerolog.Logger
}

// DefaultOptions returns the standard advisory thresholds and a no-op logger.
func DefaultOptions() Options {
	return Options{
		CapsRatio:      checks.DefaultMaxCapsRatio,
		MaxEmoji:       checks.DefaultMaxEmoji,
		MaxPunctuation: checks.DefaultMaxPunctuation,
		Logger:         zerolog.Nop(),
	}
}

// Engine validates tables against platform rulesets.
type Engine struct {
	resolver Resolver
	opts     Options
	log      zerolog.Logger
}

// NewEngine creates an Engine that resolves rulesets through resolver.
func NewEngine(resolver Resolver, opts Options) *Engine {
	return &Engine{
		resolver: resolver,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Validate checks every row of table. An empty platformOverride selects
// the platform from the table's headers. The returned table is always a
// copy of the input; fixes are applied to it only when autoFix is set.
// Data problems are reported as issues, never as errors.
func (e *Engine) Validate(ctx context.Context, table domain.Table, platformOverride string, autoFix bool) (*domain.ValidationResult, domain.Table, error) {
	verified := table.Clone()

	platform := platformOverride
	if platform == "" {
		platform = detect.Detect(table.Columns)
		e.log.Debug().Str("platform", platform).Strs("headers", table.Columns).Msg("detected platform")
	}

	rs, err := e.resolver.Resolve(platform)
	if err != nil {
		return nil, domain.Table{}, fmt.Errorf("resolving ruleset: %w", err)
	}
	e.log.Debug().
		Str("platform", platform).
		Int("rules", len(rs.Rules)).
		Int("rows", table.Len()).
		Strs("absent_columns", absentColumns(rs, table)).
		Msg("validating")

	issues := []domain.Issue{}
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, domain.Table{}, err
		}
		rowIssues := e.ValidateRow(i, row, rs)
		issues = append(issues, rowIssues...)
		if autoFix {
			ApplyFixes(i, &verified, rowIssues, rs)
		}
	}

	result := &domain.ValidationResult{
		Platform: platform,
		Issues:   issues,
		Summary:  domain.Summarize(table.Len(), issues),
	}
	e.log.Debug().
		Int("issues", len(issues)).
		Int("blockers", result.Summary.SeverityCounts[domain.SeverityBlocker]).
		Bool("auto_fix", autoFix).
		Msg("validation complete")
	return result, verified, nil
}

// RevalidateCell checks one cell of an edited table against the column's
// rule, for example after an operator override. Columns without a rule have
// nothing to report.
func (e *Engine) RevalidateCell(platform string, rowIndex int, column string, table domain.Table) ([]domain.Issue, error) {
	rs, err := e.resolver.Resolve(platform)
	if err != nil {
		return nil, fmt.Errorf("resolving ruleset: %w", err)
	}
	if rowIndex < 0 || rowIndex >= table.Len() {
		return nil, fmt.Errorf("row %d out of range", rowIndex)
	}
	if !table.HasColumn(column) {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	rule, ok := rs.Rule(column)
	if !ok {
		return nil, nil
	}
	return e.validateCell(rowIndex, table.Rows[rowIndex], rule, rs.Policies), nil
}

// absentColumns lists the ruled columns the table does not declare.
func absentColumns(rs *ruleset.RuleSet, table domain.Table) []string {
	var out []string
	for _, c := range rs.Columns() {
		if !table.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}
