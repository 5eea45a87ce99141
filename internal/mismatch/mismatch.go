// Package mismatch flags values that look like they were entered in the
// wrong column. It computes column-wide statistics once, then checks every
// row against them. Flags are advisory and never change the table.
package mismatch

import (
	"context"
	"math"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eykd/adsheet-go/internal/domain"
)

// DefaultConfidence is the minimum confidence a flag needs to be reported.
const DefaultConfidence = 0.90

// TierReview is the tier every flag carries, distinct from BLOCKER and WARNING.
const TierReview = "REVIEW"

// Type names the heuristic that raised a flag.
type Type string

const (
	URLInText        Type = "url_in_text"
	TextInURL        Type = "text_in_url"
	SwappedFields    Type = "swapped_fields"
	NameConfusion    Type = "name_confusion"
	PatternOutlier   Type = "pattern_outlier"
	LengthOutlier    Type = "length_outlier"
	MixedProducts    Type = "mixed_products"
	ThemeConflict    Type = "theme_conflict"
	SequenceMismatch Type = "sequence_mismatch"
	TopicMismatch    Type = "topic_mismatch"
)

// Flag is a likely data-entry error found by a heuristic.
type Flag struct {
	Row          int     `json:"row"`
	Column       string  `json:"column"`
	Type         Type    `json:"mismatch_type"`
	Message      string  `json:"message"`
	CurrentValue string  `json:"current_value"`
	Suggestion   string  `json:"suggestion"`
	Confidence   float64 `json:"confidence"`
	Tier         string  `json:"tier"`
}

// Options configures a Detector.
type Options struct {
	// Confidence is the reporting threshold; zero means DefaultConfidence.
	Confidence float64
	// Workers bounds phase-two parallelism; zero means GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
}

// Detector runs the mismatch heuristics over a table.
type Detector struct {
	confidence float64
	workers    int
	log        zerolog.Logger
}

// NewDetector creates a Detector from opts, filling in defaults.
func NewDetector(opts Options) *Detector {
	d := &Detector{
		confidence: opts.Confidence,
		workers:    opts.Workers,
		log:        opts.Logger,
	}
	if d.confidence <= 0 {
		d.confidence = DefaultConfidence
	}
	if d.workers <= 0 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	return d
}

// Detect returns every flag at or above the confidence threshold, ordered
// by row and then by the order the heuristics run in.
func (d *Detector) Detect(ctx context.Context, table domain.Table) ([]Flag, error) {
	p := profile(table)
	d.log.Debug().
		Strs("url_columns", p.urlCols).
		Strs("text_columns", p.textCols).
		Int("rows", table.Len()).
		Msg("profiled columns")

	perRow := make([][]Flag, table.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, row := range table.Rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perRow[i] = d.checkRow(i, row, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flags := []Flag{}
	for _, fs := range perRow {
		flags = append(flags, fs...)
	}
	d.log.Debug().Int("flags", len(flags)).Msg("mismatch detection complete")
	return flags, nil
}

func (d *Detector) checkRow(i int, row domain.Row, p *tableProfile) []Flag {
	var raw []Flag
	raw = append(raw, urlInText(i, row, p)...)
	raw = append(raw, textInURL(i, row, p)...)
	raw = append(raw, swappedFields(i, row, p)...)
	raw = append(raw, nameConfusion(i, row, p)...)
	raw = append(raw, outliers(i, row, p)...)
	raw = append(raw, mixedProducts(i, row, p)...)
	raw = append(raw, themeConflict(i, row, p)...)
	raw = append(raw, sequenceMismatch(i, row, p)...)
	raw = append(raw, topicMismatch(i, row, p)...)

	var kept []Flag
	for _, f := range raw {
		if f.Confidence >= d.confidence {
			f.Tier = TierReview
			kept = append(kept, f)
		}
	}
	return kept
}

var (
	urlKeywords  = []string{"url", "link", "website", "page", "domain", "video", "image", "logo", "media", "thumbnail"}
	textKeywords = []string{"headline", "description", "text", "intro", "primary", "body", "copy"}
	nameKeywords = []string{"campaign", "ad group", "ad name", "name", "set"}
)

// columnStats holds phase-one aggregates for one text column.
type columnStats struct {
	count      int
	meanLen    float64
	stdLen     float64
	meanDigits float64
}

type tableProfile struct {
	columns   []string
	urlCols   []string
	textCols  []string
	nameCols  []string
	headlines []string
	descs     []string

	stats map[string]columnStats

	campaignCol string
	adNameCol   string
	campaigns   map[string]bool
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func profile(t domain.Table) *tableProfile {
	p := &tableProfile{
		columns:   t.Columns,
		stats:     make(map[string]columnStats),
		campaigns: make(map[string]bool),
	}
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		if containsAny(lower, urlKeywords) {
			p.urlCols = append(p.urlCols, col)
		}
		if containsAny(lower, textKeywords) {
			p.textCols = append(p.textCols, col)
		}
		if containsAny(lower, nameKeywords) {
			p.nameCols = append(p.nameCols, col)
		}
		if strings.Contains(lower, "headline") {
			p.headlines = append(p.headlines, col)
		}
		if strings.Contains(lower, "description") || strings.Contains(lower, "intro") {
			p.descs = append(p.descs, col)
		}

		switch {
		case strings.Contains(lower, "campaign") && strings.Contains(lower, "name"):
			p.campaignCol = col
		case strings.Contains(lower, "ad group"), strings.Contains(lower, "adgroup"), strings.Contains(lower, "ad set"):
		case strings.Contains(lower, "ad name"):
			p.adNameCol = col
		}
	}

	for _, col := range uniq(append(append([]string{}, p.textCols...), p.headlines...), p.descs) {
		p.stats[col] = statsFor(t.Column(col))
	}
	if p.campaignCol != "" {
		for _, v := range t.Column(p.campaignCol) {
			if !v.IsNull() {
				p.campaigns[v.Text()] = true
			}
		}
	}
	return p
}

func uniq(a, b []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range append(a, b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func statsFor(values []domain.Value) columnStats {
	var lengths, digits []float64
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		s := v.Text()
		lengths = append(lengths, float64(utf8.RuneCountInString(s)))
		digits = append(digits, digitRatio(s))
	}
	st := columnStats{count: len(lengths)}
	if st.count == 0 {
		return st
	}
	st.meanLen = mean(lengths)
	st.stdLen = sampleStd(lengths, st.meanLen)
	st.meanDigits = mean(digits)
	return st
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd uses n-1 degrees of freedom; a single value has no spread.
func sampleStd(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func digitRatio(s string) float64 {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	var d int
	for _, r := range s {
		if unicode.IsDigit(r) {
			d++
		}
	}
	return float64(d) / float64(n)
}

// text returns the cell's text and whether it holds a value.
func text(row domain.Row, col string) (string, bool) {
	v, ok := row[col]
	if !ok || v.IsNull() {
		return "", false
	}
	return v.Text(), true
}
