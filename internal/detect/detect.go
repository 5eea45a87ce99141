// Package detect guesses which ad platform a spreadsheet was exported for
// from its column headers alone.
package detect

// Platform names returned by Detect.
const (
	GoogleAds   = "Google Ads"
	MetaAds     = "Meta Ads"
	LinkedInAds = "LinkedIn Ads"
	Generic     = "Generic"
)

// Threshold is the minimum score a platform needs to be chosen over Generic.
const Threshold = 8

// signal awards Weight when every header in All is present and, if Any is
// non-empty, at least one header in Any is present.
type signal struct {
	All    []string
	Any    []string
	Weight int
}

type candidate struct {
	Platform string
	Signals  []signal
}

// candidates are scored in declaration order; the first maximal score wins.
var candidates = []candidate{
	{GoogleAds, []signal{
		{All: []string{"Ad Group"}, Weight: 10},
		{All: []string{"Campaign", "Ad Group"}, Weight: 5},
		{All: []string{"Final URL"}, Weight: 3},
		{Any: []string{"Headline 1", "Headline 2"}, Weight: 5},
		{All: []string{"Description 1"}, Weight: 5},
		{All: []string{"Your YouTube video"}, Weight: 10},
	}},
	{MetaAds, []signal{
		{All: []string{"Ad Set Name"}, Weight: 10},
		{All: []string{"Campaign Name", "Ad Set Name", "Ad Name"}, Weight: 5},
		{All: []string{"Primary Text"}, Weight: 5},
		{Any: []string{"Video URL", "Video ID"}, Weight: 3},
		{All: []string{"Website URL"}, Weight: 3},
	}},
	{LinkedInAds, []signal{
		{All: []string{"Landing Page URL"}, Weight: 10},
		{All: []string{"Introduction", "Campaign Name"}, Weight: 5},
		{All: []string{"Headline", "Introduction"}, Weight: 5},
	}},
}

// Score is one platform's weighted header score.
type Score struct {
	Platform string `json:"platform"`
	Score    int    `json:"score"`
}

// Scores returns every candidate platform's score in declaration order.
func Scores(headers []string) []Score {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	out := make([]Score, len(candidates))
	for i, c := range candidates {
		total := 0
		for _, s := range c.Signals {
			if s.matches(present) {
				total += s.Weight
			}
		}
		out[i] = Score{Platform: c.Platform, Score: total}
	}
	return out
}

func (s signal) matches(present map[string]bool) bool {
	for _, h := range s.All {
		if !present[h] {
			return false
		}
	}
	if len(s.Any) == 0 {
		return true
	}
	for _, h := range s.Any {
		if present[h] {
			return true
		}
	}
	return false
}

// Detect returns the best-scoring platform for headers, or Generic when no
// platform reaches Threshold.
func Detect(headers []string) string {
	best := Score{Platform: Generic}
	for _, s := range Scores(headers) {
		if s.Score > best.Score {
			best = s
		}
	}
	if best.Score < Threshold {
		return Generic
	}
	return best.Platform
}
