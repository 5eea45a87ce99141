// Package truncate shortens text to a character limit on a word boundary.
package truncate

import (
	"strings"
	"unicode"
)

// Ellipsis is appended to text shortened on a word boundary.
const Ellipsis = "..."

// minBudget is the smallest budget worth searching for a word boundary.
const minBudget = 10

// boundaryRatio is how far into the budget the last space must fall to be
// used as the cut point.
const boundaryRatio = 0.7

// Smart returns text shortened to at most max characters. Text that fits is
// returned unchanged. When fewer than ten characters remain after reserving
// room for the ellipsis, text is hard cut at max with no ellipsis.
func Smart(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 0 {
		return ""
	}

	budget := max - len(Ellipsis)
	if budget < minBudget {
		return string(runes[:max])
	}

	cut := runes[:budget]
	if i := lastSpace(cut); float64(i) > float64(budget)*boundaryRatio {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
