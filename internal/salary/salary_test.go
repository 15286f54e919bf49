package salary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobmatch/internal/types"
)

func TestPredict_SeniorEngineerRemote(t *testing.T) {
	e := NewEstimator(0, "")

	est := e.Predict(types.SalaryRequest{
		Role:       "Senior Engineer",
		Experience: 5,
		Skills:     []string{"Go", "SQL", "AWS", "Docker", "Kubernetes"},
		Location:   "Remote",
	})

	// 60000 * 1.3 (senior) * 1.0 (remote) * 1.4 * 1.1 + 15000
	assert.InDelta(t, 135120, est.Median, 1)
	assert.Equal(t, int(float64(est.Median)*0.85), est.Min)
	assert.Equal(t, int(float64(est.Median)*1.15), est.Max)
	assert.InDelta(t, 0.8, est.Confidence, 1e-9)
	assert.Equal(t, "USD", est.Currency)
}

func TestPredict_Defaults(t *testing.T) {
	e := NewEstimator(60000, "USD")

	est := e.Predict(types.SalaryRequest{})
	assert.Equal(t, 60000, est.Median)
	assert.InDelta(t, 51000, est.Min, 1)
	assert.InDelta(t, 69000, est.Max, 1)
	assert.Equal(t, 0.75, est.Confidence)
}

func TestPredict_FirstMatchWins(t *testing.T) {
	e := NewEstimator(100000, "USD")

	junior := e.Predict(types.SalaryRequest{Role: "Junior Developer"})
	assert.InDelta(t, 80000, junior.Median, 1)

	director := e.Predict(types.SalaryRequest{Role: "Senior Director", Location: "New York / Remote"})
	assert.InDelta(t, 100000*1.7*1.35, director.Median, 1)
}

func TestPredict_CapsAndConfidence(t *testing.T) {
	e := NewEstimator(10000, "EUR")
	skills := make([]string, 30)

	est := e.Predict(types.SalaryRequest{Experience: 40, Skills: skills})

	// experience factor capped at 1.8, skill factor at 1.2
	assert.InDelta(t, 10000*1.8*1.2+40*3000, est.Median, 1)
	assert.InDelta(t, 0.85, est.Confidence, 1e-9)
	assert.Equal(t, "EUR", est.Currency)
}

func TestPredict_Fallback(t *testing.T) {
	e := NewEstimator(0, "")

	for _, exp := range []float64{-1, math.NaN(), math.Inf(1)} {
		est := e.Predict(types.SalaryRequest{Role: "Engineer", Experience: exp})
		assert.Equal(t, types.SalaryEstimate{Currency: "USD", Min: 50000, Max: 100000, Median: 75000, Confidence: 0.5}, est)
	}
}

func TestPredict_NonFiniteMedianFallsBack(t *testing.T) {
	e := NewEstimator(math.MaxFloat64, "USD", WithTables([]Multiplier{{"engineer", 10}}, nil))

	assert.Equal(t, e.Fallback(), e.Predict(types.SalaryRequest{Role: "Engineer"}))
}

func TestPredict_Deterministic(t *testing.T) {
	e := NewEstimator(0, "")
	req := types.SalaryRequest{Role: "Staff Engineer", Experience: 9, Skills: []string{"Go"}, Location: "Seattle"}

	assert.Equal(t, e.Predict(req), e.Predict(req))
}

func TestLookup(t *testing.T) {
	assert.Equal(t, 1.0, lookup(DefaultRoles, "Astronaut"))
	assert.Equal(t, 1.4, lookup(DefaultLocations, "San Francisco, CA"))
}
