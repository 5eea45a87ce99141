package mismatch

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eykd/adsheet-go/internal/checks"
	"github.com/eykd/adsheet-go/internal/domain"
)

var looksLikeURL = regexp.MustCompile(`(?i)https?://|www\.|\.com|\.net|\.org|\.io|//`)

var marketingWords = []string{
	"free", "trial", "today", "now", "get", "save", "buy", "shop",
	"learn", "discover", "try", "start", "join", "best", "top",
}

var campaignWords = []string{"campaign", "search", "display", "video", "brand", "performance"}

func countContained(s string, words []string) int {
	var n int
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}

func urlInText(i int, row domain.Row, p *tableProfile) []Flag {
	var flags []Flag
	for _, col := range p.textCols {
		s, ok := text(row, col)
		if !ok || !looksLikeURL.MatchString(s) {
			continue
		}
		flags = append(flags, Flag{
			Row:          i,
			Column:       col,
			Type:         URLInText,
			Message:      fmt.Sprintf("URL detected in text field %q. This appears to be a data entry error.", col),
			CurrentValue: s,
			Suggestion:   urlSuggestion(s),
			Confidence:   0.95,
		})
	}
	return flags
}

// urlSuggestion names the host of the first URL-like word in s when it
// has one.
func urlSuggestion(s string) string {
	for _, w := range strings.Fields(s) {
		if !looksLikeURL.MatchString(w) {
			continue
		}
		w = strings.TrimRight(w, ".,;:!?)")
		if !strings.Contains(w, "://") {
			w = "https://" + w
		}
		if host := checks.ExtractDomain(w); host != "" {
			return fmt.Sprintf("Move this URL (%s) to the appropriate URL column", host)
		}
	}
	return "Move this URL to the appropriate URL column"
}

func textInURL(i int, row domain.Row, p *tableProfile) []Flag {
	var flags []Flag
	for _, col := range p.urlCols {
		s, ok := text(row, col)
		if !ok || looksLikeURL.MatchString(s) {
			continue
		}
		marketing := countContained(strings.ToLower(s), marketingWords) >= 2
		sentence := strings.Count(s, " ") >= 3
		if !(marketing || sentence) || !strings.Contains(s, " ") {
			continue
		}
		flags = append(flags, Flag{
			Row:          i,
			Column:       col,
			Type:         TextInURL,
			Message:      fmt.Sprintf("Marketing text detected in URL field %q. This appears to be a data entry error.", col),
			CurrentValue: s,
			Suggestion:   "Move this text to the appropriate text column",
			Confidence:   0.92,
		})
	}
	return flags
}

// swappedFields compares each headline/description pair in the row. The
// description must also fall short of the headline column's mean length.
func swappedFields(i int, row domain.Row, p *tableProfile) []Flag {
	var flags []Flag
	for _, hCol := range p.headlines {
		for _, dCol := range p.descs {
			if hCol == dCol {
				continue
			}
			h, ok1 := text(row, hCol)
			d, ok2 := text(row, dCol)
			if !ok1 || !ok2 || h == "" || d == "" {
				continue
			}
			hs, ds := p.stats[hCol], p.stats[dCol]
			if hs.count < 3 || ds.count < 3 {
				continue
			}
			hLen := float64(utf8.RuneCountInString(h))
			dLen := float64(utf8.RuneCountInString(d))
			if hLen <= dLen*1.5 || dLen >= hs.meanLen*0.8 {
				continue
			}
			flags = append(flags, Flag{
				Row:          i,
				Column:       hCol,
				Type:         SwappedFields,
				Message:      "Headline appears too long and description too short. Values may be swapped.",
				CurrentValue: preview(h, 50),
				Suggestion:   fmt.Sprintf("Consider swapping %q with %q", hCol, dCol),
				Confidence:   math.Min(0.95, 0.70+(hLen/dLen)*0.1),
			})
		}
	}
	return flags
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func nameConfusion(i int, row domain.Row, p *tableProfile) []Flag {
	if p.campaignCol == "" || p.adNameCol == "" {
		return nil
	}
	adName, ok := text(row, p.adNameCol)
	if !ok || adName == "" {
		return nil
	}
	campaign, _ := text(row, p.campaignCol)

	suspicious := countContained(strings.ToLower(adName), campaignWords) >= 2
	if !suspicious && adName != campaign && p.campaigns[adName] {
		suspicious = true
	}
	if !suspicious {
		return nil
	}
	return []Flag{{
		Row:          i,
		Column:       p.adNameCol,
		Type:         NameConfusion,
		Message:      fmt.Sprintf("Ad name %q looks like a campaign name. May be misplaced data.", adName),
		CurrentValue: adName,
		Suggestion:   "Verify this is the correct ad name, not a campaign name",
		Confidence:   0.91,
	}}
}

// outliers compares a text cell with the rest of its column. Columns with
// fewer than five values are skipped.
func outliers(i int, row domain.Row, p *tableProfile) []Flag {
	var flags []Flag
	for _, col := range p.textCols {
		s, ok := text(row, col)
		if !ok {
			continue
		}
		st := p.stats[col]
		if st.count < 5 {
			continue
		}

		if ratio := digitRatio(s); ratio > 0.5 && st.meanDigits < 0.1 {
			flags = append(flags, Flag{
				Row:          i,
				Column:       col,
				Type:         PatternOutlier,
				Message:      fmt.Sprintf("Value in %q is mostly numeric (%d%%) while others are text. May be wrong column.", col, int(ratio*100)),
				CurrentValue: s,
				Suggestion:   "Verify this value belongs in this column",
				Confidence:   0.90,
			})
		}

		n := float64(utf8.RuneCountInString(s))
		if st.meanLen > 30 && n < st.meanLen-2.5*st.stdLen {
			flags = append(flags, Flag{
				Row:          i,
				Column:       col,
				Type:         LengthOutlier,
				Message:      fmt.Sprintf("Value in %q is unusually short (%d chars vs avg %d). May be incomplete or wrong column.", col, int(n), int(st.meanLen)),
				CurrentValue: s,
				Suggestion:   "Verify this value is complete and in the right column",
				Confidence:   math.Min(0.95, 0.85+(st.meanLen-n)/st.meanLen*0.1),
			})
		}
	}
	return flags
}
