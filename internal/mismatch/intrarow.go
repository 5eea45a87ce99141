package mismatch

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/eykd/adsheet-go/internal/domain"
)

// productGroups lists product terms that may share a row. Terms from two
// different groups in the same row suggest rows were merged by mistake.
var productGroups = [][]string{
	{"shoe", "sneaker", "boot", "sandal", "footwear"},
	{"laptop", "computer", "notebook", "tablet", "keyboard"},
	{"phone", "smartphone", "iphone", "android", "headphone", "earbud"},
	{"shirt", "dress", "jacket", "jeans", "apparel", "clothing"},
	{"coffee", "espresso", "tea", "latte"},
	{"insurance", "coverage", "deductible"},
	{"software", "saas", "crm", "analytics", "dashboard"},
	{"car", "vehicle", "suv", "truck", "sedan"},
	{"sofa", "chair", "desk", "furniture", "mattress"},
	{"skincare", "makeup", "cosmetic", "serum", "lipstick"},
	{"dog", "cat", "pet", "kibble"},
}

var productIndex = func() map[string]int {
	m := make(map[string]int)
	for g, terms := range productGroups {
		for _, t := range terms {
			m[t] = g
		}
	}
	return m
}()

// themeConflicts pairs seasonal or promotional themes that cannot both
// apply to one ad.
var themeConflicts = [][2]string{
	{"summer", "winter"},
	{"spring", "autumn"},
	{"christmas", "halloween"},
	{"valentine", "halloween"},
	{"back to school", "christmas"},
	{"black friday", "summer"},
}

var themePatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, pair := range themeConflicts {
		for _, t := range pair {
			if _, ok := m[t]; !ok {
				m[t] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `s?\b`)
			}
		}
	}
	return m
}()

var stopwords = map[string]bool{
	"with": true, "your": true, "from": true, "that": true, "this": true,
	"have": true, "will": true, "more": true, "than": true, "they": true,
	"their": true, "about": true, "into": true, "what": true, "when": true,
	"where": true, "which": true, "just": true, "only": true, "also": true,
	"each": true, "here": true, "there": true, "these": true, "those": true,
	"been": true, "were": true, "them": true, "then": true, "over": true,
	"very": true, "most": true, "some": true, "such": true, "ours": true,
}

var firstNumber = regexp.MustCompile(`\d+`)

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// productTerm reports the group of w, accepting a plural.
func productTerm(w string) (int, bool) {
	if g, ok := productIndex[w]; ok {
		return g, true
	}
	g, ok := productIndex[strings.TrimSuffix(w, "s")]
	return g, ok
}

// contentColumns returns the text and name columns in table order.
func (p *tableProfile) contentColumns() []string {
	want := make(map[string]bool)
	for _, c := range p.textCols {
		want[c] = true
	}
	for _, c := range p.nameCols {
		want[c] = true
	}
	var cols []string
	for _, c := range p.columns {
		if want[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

type sighting struct {
	term   string
	column string
	value  string
}

func mixedProducts(i int, row domain.Row, p *tableProfile) []Flag {
	if f, ok := mixedProductTerms(i, row, p); ok {
		return []Flag{f}
	}
	if f, ok := mixedProductPhrases(i, row, p); ok {
		return []Flag{f}
	}
	return nil
}

func mixedProductTerms(i int, row domain.Row, p *tableProfile) (Flag, bool) {
	seen := make(map[int]sighting)
	var order []int
	for _, col := range p.contentColumns() {
		s, ok := text(row, col)
		if !ok {
			continue
		}
		for _, w := range words(s) {
			g, ok := productTerm(w)
			if !ok {
				continue
			}
			if _, dup := seen[g]; !dup {
				seen[g] = sighting{term: w, column: col, value: s}
				order = append(order, g)
			}
		}
	}
	if len(order) < 2 {
		return Flag{}, false
	}
	return mixedFlag(i, seen[order[0]], seen[order[1]], len(order)), true
}

func mixedFlag(i int, first, second sighting, distinct int) Flag {
	return Flag{
		Row:          i,
		Column:       second.column,
		Type:         MixedProducts,
		Message:      fmt.Sprintf("Row mentions unrelated products %q and %q. Data from different ads may be mixed.", first.term, second.term),
		CurrentValue: second.value,
		Suggestion:   fmt.Sprintf("Check that %q belongs with the rest of this row", second.column),
		Confidence:   math.Min(0.95, 0.91+0.02*float64(distinct-2)),
	}
}

// phraseBoilerplate holds capitalized words that name campaign structure,
// themes or calls to action rather than a product. They break phrases.
var phraseBoilerplate = map[string]bool{
	"ad": true, "ads": true, "campaign": true, "group": true, "set": true,
	"launch": true, "sale": true, "promo": true, "offer": true, "deal": true,
	"deals": true, "new": true, "shop": true, "buy": true, "get": true,
	"save": true, "free": true, "now": true, "today": true, "the": true,
	"our": true, "your": true, "and": true, "for": true, "with": true,
	"brand": true, "search": true, "display": true, "video": true,
	"retargeting": true, "remarketing": true, "prospecting": true,
	"awareness": true, "conversion": true, "performance": true,
	"spring": true, "summer": true, "autumn": true, "fall": true,
	"winter": true, "holiday": true, "christmas": true, "black": true,
	"friday": true, "cyber": true, "monday": true,
}

// titleWord reports whether w starts with an upper-case letter and
// continues in lower case, so acronyms and codes like "Q1" are not words of
// a product name.
func titleWord(w string) bool {
	r := []rune(w)
	if len(r) < 2 || !unicode.IsUpper(r[0]) {
		return false
	}
	lower := false
	for _, c := range r[1:] {
		if unicode.IsDigit(c) {
			return false
		}
		if unicode.IsLower(c) {
			lower = true
		}
	}
	return lower
}

// capitalizedPhrases returns runs of two or more title-case words in s.
// Punctuation after a word ends its run.
func capitalizedPhrases(s string) []string {
	var out []string
	var run []string
	flush := func() {
		if len(run) >= 2 {
			out = append(out, strings.Join(run, " "))
		}
		run = nil
	}
	for _, tok := range strings.Fields(s) {
		w := strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if !titleWord(w) || phraseBoilerplate[strings.ToLower(w)] {
			flush()
			continue
		}
		run = append(run, w)
		if !strings.HasSuffix(tok, w) {
			flush()
		}
	}
	flush()
	return out
}

type phraseSighting struct {
	sighting
	words  map[string]bool
	groups map[int]bool
	inText bool
}

func newPhraseSighting(phrase, column, value string, inText bool) phraseSighting {
	ps := phraseSighting{
		sighting: sighting{term: phrase, column: column, value: value},
		words:    make(map[string]bool),
		groups:   make(map[int]bool),
		inText:   inText,
	}
	for _, w := range words(phrase) {
		ps.words[w] = true
		if g, ok := productTerm(w); ok {
			ps.groups[g] = true
		}
	}
	return ps
}

// unrelated reports whether two phrases share no word and no product group.
func (a phraseSighting) unrelated(b phraseSighting) bool {
	for w := range a.words {
		if b.words[w] {
			return false
		}
	}
	for g := range a.groups {
		if b.groups[g] {
			return false
		}
	}
	return true
}

// mixedProductPhrases compares product names across the columns of a row.
// At least one side of a pair must come from an ad text column, since
// campaign and ad names alone often hold unrelated structural labels.
func mixedProductPhrases(i int, row domain.Row, p *tableProfile) (Flag, bool) {
	isText := make(map[string]bool, len(p.textCols))
	for _, c := range p.textCols {
		isText[c] = true
	}
	var found []phraseSighting
	seen := make(map[string]bool)
	for _, col := range p.contentColumns() {
		s, ok := text(row, col)
		if !ok {
			continue
		}
		for _, ph := range capitalizedPhrases(s) {
			key := strings.ToLower(ph)
			if seen[key] {
				continue
			}
			seen[key] = true
			found = append(found, newPhraseSighting(ph, col, s, isText[col]))
		}
	}
	for b := 1; b < len(found); b++ {
		for a := 0; a < b; a++ {
			x, y := found[a], found[b]
			if x.column == y.column || !(x.inText || y.inText) || !x.unrelated(y) {
				continue
			}
			return mixedFlag(i, x.sighting, y.sighting, len(found)), true
		}
	}
	return Flag{}, false
}

func themeConflict(i int, row domain.Row, p *tableProfile) []Flag {
	found := make(map[string]sighting)
	for _, col := range p.contentColumns() {
		s, ok := text(row, col)
		if !ok {
			continue
		}
		for theme, re := range themePatterns {
			if _, dup := found[theme]; !dup && re.MatchString(s) {
				found[theme] = sighting{term: theme, column: col, value: s}
			}
		}
	}
	for _, pair := range themeConflicts {
		a, okA := found[pair[0]]
		b, okB := found[pair[1]]
		if !okA || !okB {
			continue
		}
		at := b
		if indexOf(p.columns, a.column) > indexOf(p.columns, b.column) {
			at = a
		}
		return []Flag{{
			Row:          i,
			Column:       at.column,
			Type:         ThemeConflict,
			Message:      fmt.Sprintf("Row mixes conflicting themes %q and %q.", pair[0], pair[1]),
			CurrentValue: at.value,
			Suggestion:   "Use one seasonal or promotional theme per ad",
			Confidence:   0.92,
		}}
	}
	return nil
}

func indexOf(cols []string, c string) int {
	for i, x := range cols {
		if x == c {
			return i
		}
	}
	return -1
}

type sequenceNumber struct {
	n      int
	column string
	value  string
}

// sequenceMismatch compares the first number in each name column. Four-digit
// numbers that look like years are ignored.
func sequenceMismatch(i int, row domain.Row, p *tableProfile) []Flag {
	var nums []sequenceNumber
	for _, col := range p.nameCols {
		s, ok := text(row, col)
		if !ok {
			continue
		}
		for _, m := range firstNumber.FindAllString(s, -1) {
			n, err := strconv.Atoi(m)
			if err != nil || (len(m) == 4 && n >= 1900 && n < 2100) {
				continue
			}
			nums = append(nums, sequenceNumber{n: n, column: col, value: s})
			break
		}
	}
	if len(nums) < 2 {
		return nil
	}
	lo, hi := nums[0], nums[0]
	for _, x := range nums[1:] {
		if x.n < lo.n {
			lo = x
		}
		if x.n > hi.n {
			hi = x
		}
	}
	if hi.n < 10*max(lo.n, 1) || hi.n-lo.n < 10 {
		return nil
	}
	return []Flag{{
		Row:          i,
		Column:       hi.column,
		Type:         SequenceMismatch,
		Message:      fmt.Sprintf("Sequence number %d in %q is far from %d in %q. Row may mix data from different ads.", hi.n, hi.column, lo.n, lo.column),
		CurrentValue: hi.value,
		Suggestion:   "Verify the naming sequence for this row",
		Confidence:   0.90,
	}}
}

// keywords returns five-letter stems of the significant words in s.
func keywords(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range words(s) {
		r := []rune(w)
		if len(r) < 4 || stopwords[w] || !unicode.IsLetter(r[0]) {
			continue
		}
		if len(r) > 5 {
			r = r[:5]
		}
		out[string(r)] = true
	}
	return out
}

func topicMismatch(i int, row domain.Row, p *tableProfile) []Flag {
	head := make(map[string]bool)
	for _, col := range p.headlines {
		if s, ok := text(row, col); ok {
			for k := range keywords(s) {
				head[k] = true
			}
		}
	}
	body := make(map[string]bool)
	var at, value string
	for _, col := range p.descs {
		s, ok := text(row, col)
		if !ok {
			continue
		}
		if at == "" {
			at, value = col, s
		}
		for k := range keywords(s) {
			body[k] = true
		}
	}
	if len(head) < 3 || len(body) < 3 {
		return nil
	}
	for k := range head {
		if body[k] {
			return nil
		}
	}
	return []Flag{{
		Row:          i,
		Column:       at,
		Type:         TopicMismatch,
		Message:      "Headline and description share no keywords. They may describe different products.",
		CurrentValue: value,
		Suggestion:   "Check that the headline and description belong to the same ad",
		Confidence:   0.90,
	}}
}
