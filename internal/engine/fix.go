package engine

import (
	"strings"

	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/ruleset"
)

// ApplyFixes writes auto-applicable suggestions for one row into t, which
// must be the verified copy. A column's first declared fix decides whether
// its suggestions auto-apply. Quoted suggestions are written as literals;
// allowed-value suggestions go through the column's map_values and
// lowercase_to_uppercase fixes in declaration order. Suggestions that cannot
// be mapped leave the cell unchanged. Policy rewrites are never applied.
func ApplyFixes(rowIndex int, t *domain.Table, issues []domain.Issue, rs *ruleset.RuleSet) {
	for _, is := range issues {
		if is.SuggestedFix == "" || is.Kind == domain.CheckPolicy {
			continue
		}
		gate, ok := rs.FixFor(is.Column)
		if !ok || !gate.AutoApply {
			continue
		}

		if literal, ok := domain.UnquoteFix(is.SuggestedFix); ok {
			t.SetCell(rowIndex, is.Column, domain.Str(literal))
			continue
		}
		if domain.IsAllowedValuesHint(is.SuggestedFix) {
			applyValueFix(rowIndex, t, is, rs.FixesFor(is.Column))
		}
	}
}

func applyValueFix(rowIndex int, t *domain.Table, is domain.Issue, fixes []ruleset.Fix) {
	for _, f := range fixes {
		switch f.Rule {
		case ruleset.FixMapValues:
			if repl, ok := f.Lookup(is.OriginalValue.Text()); ok {
				t.SetCell(rowIndex, is.Column, domain.Str(repl))
				return
			}
		case ruleset.FixUppercase:
			cur, ok := t.Cell(rowIndex, is.Column)
			if !ok || cur.IsNull() {
				return
			}
			t.SetCell(rowIndex, is.Column, domain.Str(strings.ToUpper(cur.Text())))
			return
		}
	}
}
