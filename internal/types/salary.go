package types

import "github.com/go-playground/validator/v10"

// SalaryRequest describes the position to estimate a salary for.
type SalaryRequest struct {
	Role       string   `json:"role" validate:"max=200"`
	Experience float64  `json:"experience"`
	Skills     []string `json:"skills" validate:"max=200"`
	Location   string   `json:"location" validate:"max=200"`
}

// Validate validates the SalaryRequest using the validator.
func (r *SalaryRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SalaryEstimate is a salary band in whole currency units.
type SalaryEstimate struct {
	Currency   string  `json:"currency"`
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	Median     int     `json:"median"`
	Confidence float64 `json:"confidence"`
}
