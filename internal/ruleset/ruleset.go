// Package ruleset defines a platform's validation rules, its fix table and its
// content policies, and decodes them from YAML.
//
// Decoding is strict: unknown fields, malformed patterns and contradictory
// bounds are rejected with a *domain.ConfigError before any row is checked.
// Each Rule is compiled into an ordered list of typed constraints so the row
// validator never consults untyped configuration.
package ruleset

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Declared column types.
const (
	TypeString  = "string"
	TypeURL     = "url"
	TypeNumber  = "number"
	TypeFloat   = "float"
	TypeInteger = "integer"
)

// FixRule names the remapping applied by a Fix.
type FixRule string

// Fix rule kinds.
const (
	FixMapValues FixRule = "map_values"
	FixUppercase FixRule = "lowercase_to_uppercase"
	FixTruncate  FixRule = "truncate"
)

// Rule is the constraint set declared for one column.
type Rule struct {
	Column          string   `yaml:"column" validate:"required"`
	Type            string   `yaml:"type" validate:"omitempty,oneof=string url number float integer"`
	Required        bool     `yaml:"required"`
	MaxLength       *int     `yaml:"max_length" validate:"omitempty,gt=0"`
	RecommendedMax  *int     `yaml:"recommended_max" validate:"omitempty,gt=0"`
	Values          []string `yaml:"values" validate:"omitempty,dive,required"`
	Regex           string   `yaml:"regex"`
	ProhibitedChars []string `yaml:"prohibited_chars" validate:"omitempty,dive,required"`
	Min             *float64 `yaml:"min"`
	Max             *float64 `yaml:"max"`
	Message         string   `yaml:"message"`

	constraints []Constraint
	prohibited  []string
}

// Constraints returns the compiled checks for the rule in evaluation order.
func (r Rule) Constraints() []Constraint {
	return r.constraints
}

// Prohibited returns the characters the advisory punctuation check rejects.
func (r Rule) Prohibited() []string {
	return r.prohibited
}

// MessageOr returns the rule's message override, or def when none is set.
func (r Rule) MessageOr(def string) string {
	if r.Message != "" {
		return r.Message
	}
	return def
}

// IsNumeric reports whether the rule declares a numeric type.
func (r Rule) IsNumeric() bool {
	switch r.Type {
	case TypeNumber, TypeFloat, TypeInteger:
		return true
	}
	return false
}

// Fix is a declared remapping for one column.
type Fix struct {
	TargetColumn string            `yaml:"target_column" validate:"required"`
	Rule         FixRule           `yaml:"rule" validate:"required,oneof=map_values lowercase_to_uppercase truncate"`
	Mapping      map[string]string `yaml:"mapping"`
	AutoApply    bool              `yaml:"auto_apply"`
}

// Lookup returns the replacement whose key case-insensitively equals value.
func (f Fix) Lookup(value string) (string, bool) {
	want := Fold(value)
	for k, v := range f.Mapping {
		if Fold(k) == want {
			return v, true
		}
	}
	return "", false
}

// Policy flags text matching Pattern and proposes Replacement in its place.
// An empty Column applies the policy to every text cell.
type Policy struct {
	Column      string `yaml:"column"`
	Pattern     string `yaml:"pattern" validate:"required"`
	Replacement string `yaml:"replacement"`
	Reason      string `yaml:"reason" validate:"required"`

	re *regexp.Regexp
}

// Applies reports whether the policy covers column.
func (p Policy) Applies(column string) bool {
	return p.Column == "" || p.Column == column
}

// Match reports whether text violates the policy.
func (p Policy) Match(text string) bool {
	return p.re != nil && p.re.MatchString(text)
}

// Rewrite replaces every match in text with the policy's replacement.
func (p Policy) Rewrite(text string) string {
	if p.re == nil {
		return text
	}
	return p.re.ReplaceAllString(text, p.Replacement)
}

// RuleSet is the ordered rule list, fix table and policy table for one
// platform.
type RuleSet struct {
	Platform string   `yaml:"platform" validate:"required"`
	Rules    []Rule   `yaml:"validators"`
	Fixes    []Fix    `yaml:"fixes"`
	Policies []Policy `yaml:"policies"`

	// Source names the file the ruleset was decoded from.
	Source string `yaml:"-"`
}

// Rule returns the rule declared for column.
func (rs *RuleSet) Rule(column string) (Rule, bool) {
	for _, r := range rs.Rules {
		if r.Column == column {
			return r, true
		}
	}
	return Rule{}, false
}

// FixFor returns the first fix declared for column.
func (rs *RuleSet) FixFor(column string) (Fix, bool) {
	for _, f := range rs.Fixes {
		if f.TargetColumn == column {
			return f, true
		}
	}
	return Fix{}, false
}

// FixesFor returns every fix declared for column, in declaration order.
func (rs *RuleSet) FixesFor(column string) []Fix {
	var out []Fix
	for _, f := range rs.Fixes {
		if f.TargetColumn == column {
			out = append(out, f)
		}
	}
	return out
}

// Columns returns the ruled columns in declaration order.
func (rs *RuleSet) Columns() []string {
	cols := make([]string, len(rs.Rules))
	for i, r := range rs.Rules {
		cols[i] = r.Column
	}
	return cols
}

// Fold returns the case-folded form of s used for case-insensitive
// comparisons.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
