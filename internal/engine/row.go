package engine

import (
	"fmt"
	"strings"

	"github.com/eykd/adsheet-go/internal/checks"
	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/ruleset"
	"github.com/eykd/adsheet-go/internal/truncate"
)

// ValidateRow checks one row against every rule in rs, in declaration
// order. A missing, null or blank cell stops further checks on that cell.
func (e *Engine) ValidateRow(rowIndex int, row domain.Row, rs *ruleset.RuleSet) []domain.Issue {
	var issues []domain.Issue
	for _, rule := range rs.Rules {
		issues = append(issues, e.validateCell(rowIndex, row, rule, rs.Policies)...)
	}
	return issues
}

func (e *Engine) validateCell(rowIndex int, row domain.Row, rule ruleset.Rule, policies []ruleset.Policy) []domain.Issue {
	col := rule.Column
	blocker := func(kind domain.CheckKind, msg string, val domain.Value) domain.Issue {
		return domain.NewIssue(rowIndex, col, kind, domain.SeverityBlocker, msg, val)
	}
	warning := func(kind domain.CheckKind, msg string, val domain.Value) domain.Issue {
		return domain.NewIssue(rowIndex, col, kind, domain.SeverityWarning, msg, val)
	}

	val, ok := row[col]
	if !ok {
		if rule.Required {
			return []domain.Issue{blocker(domain.CheckMissingColumn, "Missing required column: "+col, domain.Null())}
		}
		return nil
	}

	requiredMsg := rule.MessageOr(fmt.Sprintf("Value in %s is required and cannot be empty", col))
	if val.IsNull() {
		if rule.Required {
			return []domain.Issue{blocker(domain.CheckNull, requiredMsg, val)}
		}
		return nil
	}

	text := strings.TrimSpace(val.Text())
	if text == "" {
		if rule.Required {
			return []domain.Issue{blocker(domain.CheckEmpty, requiredMsg, val)}
		}
		return nil
	}

	var issues []domain.Issue
	for _, c := range rule.Constraints() {
		switch c := c.(type) {
		case ruleset.URLConstraint:
			if ok, msg := checks.ValidateURL(text); !ok {
				issues = append(issues, blocker(domain.CheckURL, msg, val))
			}
			if ok, msg := checks.CheckURLLength(text, c.MaxLength); !ok {
				issues = append(issues, warning(domain.CheckURLLength, msg, val))
			}

		case ruleset.NumericConstraint:
			if ok, msg := checks.ValidateNumberRange(val.Raw(), c.Min, c.Max); !ok {
				issues = append(issues, blocker(domain.CheckNumber, msg, val))
			}

		case ruleset.EnumConstraint:
			if !c.Allows(text) {
				msg := rule.MessageOr(fmt.Sprintf("Value '%s' not in allowed list: %s", val.Text(), domain.FormatValueList(c.Values)))
				issues = append(issues, blocker(domain.CheckValue, msg, val).WithFix(domain.AllowedValuesHint(c.Values)))
			}

		case ruleset.LengthConstraint:
			if !val.IsText() {
				continue
			}
			n := ruleset.Length(text)
			switch {
			case n > c.Max:
				msg := fmt.Sprintf("Value exceeds max length of %d characters (currently %d)", c.Max, n)
				fix := domain.QuoteFix(truncate.Smart(text, c.Max))
				issues = append(issues, blocker(domain.CheckLength, msg, val).WithFix(fix))
			case n > c.Recommended:
				msg := fmt.Sprintf("Value exceeds recommended length of %d characters (currently %d). May be truncated on some devices.", c.Recommended, n)
				fix := domain.QuoteFix(truncate.Smart(text, c.Recommended))
				issues = append(issues, warning(domain.CheckLengthWarn, msg, val).WithFix(fix))
			}

		case ruleset.RegexConstraint:
			if val.IsText() && !c.Matches(text) {
				issues = append(issues, blocker(domain.CheckRegex, rule.MessageOr("Value does not match required format"), val))
			}
		}
	}

	if val.IsText() {
		issues = append(issues, e.advisory(text, rule, val, warning)...)
		if is, ok := policyIssue(text, col, policies, val, warning); ok {
			issues = append(issues, is)
		}
	}

	if strings.Contains(col, "Image") {
		if ok, msg := checks.ValidateImageFormat(text); !ok {
			if w, h, found := checks.ExtractDimensions(text); found {
				msg = fmt.Sprintf("%s (asset is %dx%d)", msg, w, h)
			}
			issues = append(issues, warning(domain.CheckImageFormat, msg, val))
		}
	}
	if strings.Contains(col, "Video") {
		if ok, msg := checks.ValidateVideoFormat(text); !ok {
			issues = append(issues, warning(domain.CheckVideoFormat, msg, val))
		}
	}
	return issues
}

type issueFunc func(kind domain.CheckKind, msg string, val domain.Value) domain.Issue

func (e *Engine) advisory(text string, rule ruleset.Rule, val domain.Value, warning issueFunc) []domain.Issue {
	var issues []domain.Issue
	if ok, msg := checks.CheckCapitalization(text, e.opts.CapsRatio); !ok {
		issues = append(issues, warning(domain.CheckCaps, msg, val))
	}
	if ok, msg := checks.CheckSpecialCharacters(text, rule.Prohibited(), e.opts.MaxPunctuation); !ok {
		issues = append(issues, warning(domain.CheckSpecial, msg, val))
	}
	if ok, msg := checks.CheckEncoding(text); !ok {
		issues = append(issues, warning(domain.CheckEncoding, msg, val))
	}
	if ok, msg := checks.CheckEmoji(text, e.opts.MaxEmoji); !ok {
		issues = append(issues, warning(domain.CheckEmoji, msg, val))
	}
	return issues
}

// policyIssue reports every policy text violates as one issue whose fix is
// the text with all matching rewrites applied.
func policyIssue(text, column string, policies []ruleset.Policy, val domain.Value, warning issueFunc) (domain.Issue, bool) {
	var reasons []string
	rewritten := text
	for _, p := range policies {
		if !p.Applies(column) || !p.Match(rewritten) {
			continue
		}
		reasons = append(reasons, p.Reason)
		rewritten = p.Rewrite(rewritten)
	}
	if len(reasons) == 0 {
		return domain.Issue{}, false
	}
	msg := "Content policy: " + strings.Join(reasons, "; ")
	return warning(domain.CheckPolicy, msg, val).WithFix(domain.QuoteFix(rewritten)), true
}
