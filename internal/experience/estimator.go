// Package experience infers years of experience from resume text with a table of
// regular-expression rules.
package experience

// MaxYears bounds every estimate.
const MaxYears = 50.0

// DefaultReferenceYear ends open date ranges such as "2019-present".
const DefaultReferenceYear = 2024

// Estimator applies a rule table to text.
type Estimator struct {
	rules         []Rule
	referenceYear int
}

// NewEstimator returns an Estimator over rules, or DefaultRules when none are given.
// A non-positive referenceYear selects DefaultReferenceYear.
func NewEstimator(referenceYear int, rules ...Rule) *Estimator {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	if referenceYear <= 0 {
		referenceYear = DefaultReferenceYear
	}
	return &Estimator{rules: rules, referenceYear: referenceYear}
}

// ReferenceYear returns the year open ranges end at.
func (e *Estimator) ReferenceYear() int {
	return e.referenceYear
}

// Estimate returns the largest candidate over all rules, clamped to [0, MaxYears].
// Text with no candidates yields 0.
func (e *Estimator) Estimate(text string) float64 {
	best := 0.0
	found := false
	for _, rule := range e.rules {
		for _, v := range rule.Candidates(text, e.referenceYear) {
			if !found || v > best {
				best = v
				found = true
			}
		}
	}

	switch {
	case !found || best < 0:
		return 0
	case best > MaxYears:
		return MaxYears
	default:
		return best
	}
}
