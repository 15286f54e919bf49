package experience

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind says how a rule's match becomes a candidate value.
type Kind int

const (
	// KindYears reads the first capture group as a number of years.
	KindYears Kind = iota
	// KindDateRange reads a start year and an end year (or present/current).
	KindDateRange
)

// Source selects the text a rule runs against.
type Source int

const (
	// SourceLowered matches against the lowercased text.
	SourceLowered Source = iota
	// SourceOriginal matches against the text as given.
	SourceOriginal
)

// Rule is one experience heuristic.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Source  Source
	Kind    Kind
}

const yearsNumber = `(\d+(?:\.\d+)?)\+?\s*`

// DefaultRules is the built-in heuristic table.
var DefaultRules = []Rule{
	{
		Name:    "years-of-experience",
		Pattern: regexp.MustCompile(yearsNumber + `years?\s+(?:of\s+)?experience`),
		Source:  SourceLowered,
		Kind:    KindYears,
	},
	{
		Name:    "experience-colon-years",
		Pattern: regexp.MustCompile(`experience\s*:?\s*` + yearsNumber + `years?`),
		Source:  SourceLowered,
		Kind:    KindYears,
	},
	{
		Name:    "years-in-with",
		Pattern: regexp.MustCompile(yearsNumber + `years?\s+(?:in|with)\b`),
		Source:  SourceLowered,
		Kind:    KindYears,
	},
	{
		Name:    "date-range",
		Pattern: regexp.MustCompile(`\b(\d{4})\s*[-–]\s*(\d{4}|(?i:present|current))\b`),
		Source:  SourceOriginal,
		Kind:    KindDateRange,
	},
}

// Candidates returns every value the rule derives from text. Years values outside
// [0, MaxYears] are dropped. Date ranges yield (end - start) / 12, with open ranges
// ending at referenceYear.
func (r Rule) Candidates(text string, referenceYear int) []float64 {
	if r.Pattern == nil {
		return nil
	}
	if r.Source == SourceLowered {
		text = strings.ToLower(text)
	}

	var values []float64
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		switch r.Kind {
		case KindYears:
			if len(m) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v < 0 || v > MaxYears {
				continue
			}
			values = append(values, v)
		case KindDateRange:
			if len(m) < 3 {
				continue
			}
			start, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			end := referenceYear
			if y, err := strconv.Atoi(m[2]); err == nil {
				end = y
			}
			// Year difference divided by 12, kept for output compatibility.
			values = append(values, float64(end-start)/12)
		}
	}
	return values
}
