// Package salary estimates salary bands from role, location, experience and skill
// count with fixed multiplier tables.
package salary

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/types"
)

// Defaults.
const (
	DefaultBase     = 60000.0
	DefaultCurrency = "USD"
)

const (
	experienceStep     = 0.08
	experienceCap      = 0.8
	skillStep          = 0.02
	skillCap           = 0.2
	experienceBonus    = 3000.0
	bandLow            = 0.85
	bandHigh           = 1.15
	baseConfidence     = 0.75
	confidenceStep     = 0.05
	maxConfidence      = 0.95
	fallbackMin        = 50000
	fallbackMedian     = 75000
	fallbackMax        = 100000
	fallbackConfidence = 0.5
)

// Multiplier scales the base salary when Keyword occurs in the role or location.
type Multiplier struct {
	Keyword string
	Factor  float64
}

// DefaultRoles is checked in order; the first keyword found in the role wins.
var DefaultRoles = []Multiplier{
	{"director", 1.7},
	{"principal", 1.6},
	{"staff", 1.5},
	{"architect", 1.45},
	{"lead", 1.4},
	{"manager", 1.35},
	{"senior", 1.3},
	{"junior", 0.8},
	{"intern", 0.5},
	{"machine learning", 1.25},
	{"data scientist", 1.2},
	{"engineer", 1.1},
	{"developer", 1.05},
	{"analyst", 0.95},
	{"designer", 0.95},
}

// DefaultLocations is checked in order; the first keyword found in the location wins.
var DefaultLocations = []Multiplier{
	{"san francisco", 1.4},
	{"new york", 1.35},
	{"seattle", 1.3},
	{"boston", 1.25},
	{"los angeles", 1.25},
	{"london", 1.2},
	{"austin", 1.15},
	{"chicago", 1.1},
	{"denver", 1.1},
	{"berlin", 1.05},
	{"toronto", 1.0},
	{"remote", 1.0},
}

// Estimator computes salary bands.
type Estimator struct {
	base      float64
	currency  string
	roles     []Multiplier
	locations []Multiplier
	logger    *zap.Logger
}

// Option customizes an Estimator.
type Option func(*Estimator)

// WithTables replaces the role and location tables.
func WithTables(roles, locations []Multiplier) Option {
	return func(e *Estimator) {
		e.roles = roles
		e.locations = locations
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(e *Estimator) {
		e.logger = logger.OrNop(l).Named("salary")
	}
}

// NewEstimator returns an Estimator. Non-positive base and empty currency select the defaults.
func NewEstimator(base float64, currency string, opts ...Option) *Estimator {
	if base <= 0 {
		base = DefaultBase
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	e := &Estimator{
		base:      base,
		currency:  currency,
		roles:     DefaultRoles,
		locations: DefaultLocations,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Predict returns the salary band for req. Invalid input or an internal failure yields
// the fallback band.
func (e *Estimator) Predict(req types.SalaryRequest) (est types.SalaryEstimate) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("salary estimation panicked", zap.Any("panic", r))
			est = e.Fallback()
		}
	}()

	median, err := e.median(req)
	if err != nil {
		e.logger.Warn("salary estimation failed, using fallback", zap.Error(err))
		return e.Fallback()
	}

	skillCount := len(req.Skills)
	confidence := baseConfidence
	if skillCount > 5 {
		confidence += confidenceStep
	}
	if req.Experience > 0 {
		confidence += confidenceStep
	}

	return types.SalaryEstimate{
		Currency:   e.currency,
		Min:        int(float64(median) * bandLow),
		Max:        int(float64(median) * bandHigh),
		Median:     median,
		Confidence: math.Min(confidence, maxConfidence),
	}
}

// Fallback returns the fixed band used when estimation fails.
func (e *Estimator) Fallback() types.SalaryEstimate {
	return types.SalaryEstimate{
		Currency:   e.currency,
		Min:        fallbackMin,
		Max:        fallbackMax,
		Median:     fallbackMedian,
		Confidence: fallbackConfidence,
	}
}

func (e *Estimator) median(req types.SalaryRequest) (int, error) {
	exp := req.Experience
	if math.IsNaN(exp) || math.IsInf(exp, 0) || exp < 0 {
		return 0, fmt.Errorf("invalid experience %v", exp)
	}

	roleFactor := lookup(e.roles, req.Role)
	locationFactor := lookup(e.locations, req.Location)
	experienceFactor := 1 + math.Min(exp*experienceStep, experienceCap)
	skillFactor := 1 + math.Min(float64(len(req.Skills))*skillStep, skillCap)

	median := e.base*roleFactor*locationFactor*experienceFactor*skillFactor + exp*experienceBonus
	if math.IsNaN(median) || math.IsInf(median, 0) || median > math.MaxInt32 {
		return 0, fmt.Errorf("median out of range: %v", median)
	}
	return int(median), nil
}

func lookup(table []Multiplier, value string) float64 {
	value = strings.ToLower(value)
	for _, m := range table {
		if strings.Contains(value, m.Keyword) {
			return m.Factor
		}
	}
	return 1.0
}
