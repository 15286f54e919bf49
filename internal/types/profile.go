package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProfileKind distinguishes stored candidates from stored jobs.
type ProfileKind string

// Profile kinds.
const (
	KindCandidate ProfileKind = "candidate"
	KindJob       ProfileKind = "job"
)

// Valid reports whether k is a known kind.
func (k ProfileKind) Valid() bool {
	return k == KindCandidate || k == KindJob
}

// Opposite returns the kind a profile of kind k is matched against.
func (k ProfileKind) Opposite() ProfileKind {
	if k == KindJob {
		return KindCandidate
	}
	return KindJob
}

// Match statuses.
const (
	MatchStatusSuggested = "suggested"
)

// Profile is an analyzed candidate resume or job description.
type Profile struct {
	Kind            ProfileKind `json:"kind"`
	ID              string      `json:"id"`
	Title           string      `json:"title,omitempty"`
	Text            string      `json:"text"`
	Skills          []string    `json:"skills"`
	ExperienceYears float64     `json:"experienceYears"`
	Embedding       []float64   `json:"embedding,omitempty"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ProfileRequest stores a profile from text or a base64-encoded file.
type ProfileRequest struct {
	Title      string `json:"title,omitempty" validate:"max=200"`
	Text       string `json:"text,omitempty"`
	FileBase64 string `json:"fileBase64,omitempty" validate:"omitempty,base64"`
	FileName   string `json:"fileName,omitempty" validate:"required_with=FileBase64,max=255"`
}

// Validate validates the ProfileRequest using the validator.
func (r *ProfileRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" && r.FileBase64 == "" {
		return ErrNoInput
	}
	validate := validator.New()
	return validate.Struct(r)
}

// StoredMatch is a persisted candidate/job pairing.
type StoredMatch struct {
	ID           uuid.UUID `json:"id"`
	CandidateID  string    `json:"candidateId"`
	JobID        string    `json:"jobId"`
	Score        float64   `json:"score"`
	Similarity   float64   `json:"similarity"`
	SkillOverlap float64   `json:"skillOverlap"`
	TopSkills    []string  `json:"topSkills"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MatchSummary reports the outcome of a batch matching run.
type MatchSummary struct {
	Kind      ProfileKind   `json:"kind"`
	ID        string        `json:"id"`
	Evaluated int           `json:"evaluated"`
	Skipped   int           `json:"skipped"`
	Matches   []StoredMatch `json:"matches"`
}
