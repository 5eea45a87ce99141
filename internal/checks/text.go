// Package checks implements the stateless field-level checks applied to
// spreadsheet cells. Each check returns ok and, when not ok, a message.
package checks

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Defaults for the advisory text checks.
const (
	DefaultMaxCapsRatio   = 0.5
	DefaultMaxEmoji       = 3
	DefaultMaxPunctuation = 2
)

// CheckCapitalization flags text whose uppercase-letter ratio exceeds
// maxRatio, or which is entirely uppercase with more than three letters.
// Only letters are counted.
func CheckCapitalization(text string, maxRatio float64) (bool, string) {
	var letters, upper int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return true, ""
	}

	ratio := float64(upper) / float64(letters)
	if ratio > maxRatio {
		return false, fmt.Sprintf("Excessive capitalization (%d%% uppercase). Recommended: %d%% or less to avoid spam filters",
			int(ratio*100), int(maxRatio*100))
	}
	if upper == letters && letters > 3 {
		return false, "ALL CAPS text may be rejected or perform poorly"
	}
	return true, ""
}

// CheckSpecialCharacters flags prohibited characters, then excessive use of
// '!', '?' and '*'.
func CheckSpecialCharacters(text string, prohibited []string, maxPunctuation int) (bool, string) {
	var found []string
	for _, c := range prohibited {
		if c != "" && strings.Contains(text, c) {
			found = append(found, c)
		}
	}
	if len(found) > 0 {
		return false, "Contains prohibited characters: " + strings.Join(found, ", ")
	}

	count := 0
	for _, r := range text {
		if r == '!' || r == '?' || r == '*' {
			count++
		}
	}
	if count > maxPunctuation {
		return false, fmt.Sprintf("Excessive punctuation (%d exclamation/question marks). Use sparingly for better performance", count)
	}
	return true, ""
}

// CheckEncoding flags characters that commonly render badly on ad platforms.
func CheckEncoding(text string) (bool, string) {
	var problems []string
	if strings.ContainsAny(text, "\u201c\u201d\u2018\u2019") {
		problems = append(problems, "smart quotes (use straight quotes instead)")
	}
	if strings.ContainsAny(text, "\u200b\u200c\u200d") {
		problems = append(problems, "invisible zero-width characters")
	}
	if strings.ContainsRune(text, '\u00a0') {
		problems = append(problems, "non-breaking spaces (use regular spaces)")
	}
	if len(problems) > 0 {
		return false, "Contains problematic characters: " + strings.Join(problems, ", ")
	}
	return true, ""
}

// emojiRun matches maximal runs of emoji code points. Adjacent emoji count
// as one run.
var emojiRun = regexp.MustCompile(`[` +
	`\x{1F600}-\x{1F64F}` + // emoticons
	`\x{1F300}-\x{1F5FF}` + // symbols & pictographs
	`\x{1F680}-\x{1F6FF}` + // transport & map
	`\x{1F1E0}-\x{1F1FF}` + // flags
	`\x{1F900}-\x{1F9FF}` + // supplemental symbols
	`\x{2702}-\x{27B0}` + // dingbats
	`\x{24C2}\x{1F170}-\x{1F251}` + // enclosed characters
	`]+`)

// CountEmoji returns the number of emoji runs in text.
func CountEmoji(text string) int {
	return len(emojiRun.FindAllStringIndex(text, -1))
}

// CheckEmoji flags text with more than max emoji.
func CheckEmoji(text string, max int) (bool, string) {
	n := CountEmoji(text)
	if n > max {
		return false, fmt.Sprintf("Contains %d emojis. Recommended: %d or fewer for professional ads", n, max)
	}
	return true, ""
}
