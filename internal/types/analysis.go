// Package types provides the request and response payloads shared by the HTTP server,
// the CLI and the MCP tools.
package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNoInput is returned when a request carries neither text nor a file.
var ErrNoInput = errors.New("resumeText, jobDescription or fileBase64 is required")

// AnalyzeRequest asks for the signals of a resume or job description, given as text
// or as a base64-encoded file.
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
	FileBase64     string `json:"fileBase64,omitempty" validate:"omitempty,base64"`
	FileName       string `json:"fileName,omitempty" validate:"required_with=FileBase64,max=255"`
}

// Text returns the inline text of the request, preferring the resume.
func (r *AnalyzeRequest) Text() string {
	if strings.TrimSpace(r.ResumeText) != "" {
		return r.ResumeText
	}
	return r.JobDescription
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	inline := strings.TrimSpace(r.Text()) != ""
	if !inline && r.FileBase64 == "" {
		return ErrNoInput
	}
	validate := validator.New()
	if inline {
		// file fields are ignored when inline text is present
		return validate.StructExcept(r, "FileBase64", "FileName")
	}
	return validate.Struct(r)
}

// AnalysisResult holds the signals extracted from one document.
type AnalysisResult struct {
	Text            string    `json:"text"`
	Skills          []string  `json:"skills"`
	ExperienceYears float64   `json:"experienceYears"`
	Embedding       []float64 `json:"embedding"`
	Error           string    `json:"error,omitempty"`
}

// EmptyAnalysis returns the zeroed result carrying message.
func EmptyAnalysis(message string) AnalysisResult {
	return AnalysisResult{
		Skills:    []string{},
		Embedding: []float64{},
		Error:     message,
	}
}

// CompareRequest asks how well a resume fits a job description.
type CompareRequest struct {
	ResumeText     string `json:"resumeText" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// Validate validates the CompareRequest using the validator.
func (r *CompareRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Comparison is the result of comparing a resume with a job description.
type Comparison struct {
	Score         int      `json:"score"`
	Similarity    float64  `json:"similarity"`
	ResumeSkills  []string `json:"resumeSkills"`
	JobSkills     []string `json:"jobSkills"`
	MissingSkills []string `json:"missingSkills"`
	Suggestions   []string `json:"suggestions"`
	Error         string   `json:"error,omitempty"`
}

// EmptyComparison returns the zeroed comparison carrying message.
func EmptyComparison(message string) Comparison {
	return Comparison{
		ResumeSkills:  []string{},
		JobSkills:     []string{},
		MissingSkills: []string{},
		Suggestions:   []string{},
		Error:         message,
	}
}

// MatchRequest scores a candidate against a job from precomputed signals.
type MatchRequest struct {
	JobEmbedding       []float64 `json:"jobEmbedding"`
	CandidateEmbedding []float64 `json:"candidateEmbedding"`
	JobSkills          []string  `json:"jobSkills" validate:"max=200"`
	CandidateSkills    []string  `json:"candidateSkills" validate:"max=200"`
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MatchResult is the blended score of a candidate against a job.
type MatchResult struct {
	Score          float64  `json:"score"`
	Similarity     float64  `json:"similarity"`
	SkillOverlap   float64  `json:"skillOverlap"`
	MatchingSkills []string `json:"matchingSkills"`
}
