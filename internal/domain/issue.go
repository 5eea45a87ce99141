package domain

import (
	"strconv"
	"strings"
)

// Severity indicates how severe an issue is.
type Severity string

const (
	// SeverityBlocker indicates a hard platform constraint violation.
	SeverityBlocker Severity = "BLOCKER"
	// SeverityWarning indicates an advisory finding.
	SeverityWarning Severity = "WARNING"
)

// CheckKind identifies which check produced an issue. Together with the row
// and column it forms the issue identity.
type CheckKind string

// Check kind constants.
const (
	CheckMissingColumn CheckKind = "missing"
	CheckNull          CheckKind = "null"
	CheckEmpty         CheckKind = "empty"
	CheckURL           CheckKind = "url"
	CheckURLLength     CheckKind = "url_len"
	CheckNumber        CheckKind = "number"
	CheckValue         CheckKind = "value"
	CheckLength        CheckKind = "len"
	CheckLengthWarn    CheckKind = "len_warn"
	CheckRegex         CheckKind = "regex"
	CheckCaps          CheckKind = "caps"
	CheckSpecial       CheckKind = "special"
	CheckEncoding      CheckKind = "encoding"
	CheckEmoji         CheckKind = "emoji"
	CheckImageFormat   CheckKind = "image_format"
	CheckVideoFormat   CheckKind = "video_format"
	CheckPolicy        CheckKind = "policy"
)

// Issue is one detected problem in one cell. Issues are values; consumers
// track handled state by ID rather than mutating them.
type Issue struct {
	ID            string    `json:"id"`
	RowIndex      int       `json:"row_index"`
	Column        string    `json:"column"`
	Kind          CheckKind `json:"kind"`
	Severity      Severity  `json:"severity"`
	Message       string    `json:"message"`
	OriginalValue Value     `json:"original_value"`
	SuggestedFix  string    `json:"suggested_fix,omitempty"`
}

// IssueID builds the composite identifier "<row>_<column>_<kind>".
// Underscores inside the column name are doubled, so the first single
// underscore after the row ends the column and no two (column, kind) pairs
// share an ID.
func IssueID(row int, column string, kind CheckKind) string {
	return strconv.Itoa(row) + "_" + strings.ReplaceAll(column, "_", "__") + "_" + string(kind)
}

// NewIssue builds an Issue with its composite ID.
func NewIssue(row int, column string, kind CheckKind, sev Severity, message string, original Value) Issue {
	return Issue{
		ID:            IssueID(row, column, kind),
		RowIndex:      row,
		Column:        column,
		Kind:          kind,
		Severity:      sev,
		Message:       message,
		OriginalValue: original,
	}
}

// WithFix returns a copy of the issue carrying a suggested fix.
func (i Issue) WithFix(fix string) Issue {
	i.SuggestedFix = fix
	return i
}

const allowedValuesPrefix = "Change to one of "

// QuoteFix encodes a literal replacement suggestion.
func QuoteFix(s string) string {
	return `"` + s + `"`
}

// UnquoteFix returns the literal inside a quoted suggestion.
func UnquoteFix(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// AllowedValuesHint encodes a "pick one of" suggestion, e.g.
// Change to one of ['ACTIVE', 'PAUSED'].
func AllowedValuesHint(values []string) string {
	return allowedValuesPrefix + FormatValueList(values)
}

// FormatValueList renders values as ['A', 'B'].
func FormatValueList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// IsAllowedValuesHint reports whether s is an allowed-values suggestion.
func IsAllowedValuesHint(s string) bool {
	return strings.Contains(s, allowedValuesPrefix)
}

// FirstAllowedValue extracts the canonical (first declared) value from an
// allowed-values suggestion.
func FirstAllowedValue(s string) (string, bool) {
	if !IsAllowedValuesHint(s) {
		return "", false
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start+1 {
		return "", false
	}
	list := s[start+1 : end]
	first, _, _ := strings.Cut(list, "', '")
	first = strings.Trim(strings.TrimSpace(first), `'"`)
	return first, true
}
