package ruleset

import (
	"regexp"
	"unicode/utf8"
)

// Constraint is one typed check compiled from a Rule. The concrete types are
// URLConstraint, NumericConstraint, EnumConstraint, LengthConstraint and
// RegexConstraint.
type Constraint interface {
	constraint()
}

// URLConstraint requires a well-formed http(s) URL no longer than MaxLength.
type URLConstraint struct {
	MaxLength int
}

// NumericConstraint requires a number within the optional bounds.
type NumericConstraint struct {
	Min *float64
	Max *float64
}

// EnumConstraint restricts a cell to a declared value set, compared
// case-insensitively.
type EnumConstraint struct {
	Values []string

	folded map[string]bool
}

// Allows reports whether text case-insensitively equals a declared value.
func (c EnumConstraint) Allows(text string) bool {
	return c.folded[Fold(text)]
}

// LengthConstraint caps text length. Recommended equals Max when the rule
// declares no soft limit.
type LengthConstraint struct {
	Max         int
	Recommended int
}

// RegexConstraint requires text to match Pattern from its first character.
type RegexConstraint struct {
	Source  string
	Pattern *regexp.Regexp
}

// Matches reports whether text satisfies the pattern.
func (c RegexConstraint) Matches(text string) bool {
	return c.Pattern.MatchString(text)
}

func (URLConstraint) constraint()     {}
func (NumericConstraint) constraint() {}
func (EnumConstraint) constraint()    {}
func (LengthConstraint) constraint()  {}
func (RegexConstraint) constraint()   {}

// Length returns the character count used by length constraints.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}
