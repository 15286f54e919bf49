package types

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request AnalyzeRequest
		wantErr error
		invalid bool
	}{
		{name: "resume text", request: AnalyzeRequest{ResumeText: "Go developer"}},
		{name: "job description", request: AnalyzeRequest{JobDescription: "Hiring Go developer"}},
		{name: "file", request: AnalyzeRequest{FileBase64: "aGVsbG8=", FileName: "cv.txt"}},
		{name: "nothing", request: AnalyzeRequest{}, wantErr: ErrNoInput},
		{name: "whitespace only", request: AnalyzeRequest{ResumeText: "  \n"}, wantErr: ErrNoInput},
		{name: "file without name", request: AnalyzeRequest{FileBase64: "aGVsbG8="}, invalid: true},
		{name: "bad base64", request: AnalyzeRequest{FileBase64: "***", FileName: "cv.pdf"}, invalid: true},
		{name: "inline text ignores bad file", request: AnalyzeRequest{ResumeText: "Go developer", FileBase64: "***"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.invalid:
				var validationErrs validator.ValidationErrors
				assert.ErrorAs(t, err, &validationErrs)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalyzeRequest_Text(t *testing.T) {
	assert.Equal(t, "resume", (&AnalyzeRequest{ResumeText: "resume", JobDescription: "job"}).Text())
	assert.Equal(t, "job", (&AnalyzeRequest{ResumeText: " ", JobDescription: "job"}).Text())
}

func TestEmptyAnalysis_JSONShape(t *testing.T) {
	data, err := json.Marshal(EmptyAnalysis("missing input"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"text":"","skills":[],"experienceYears":0,"embedding":[],"error":"missing input"}`, string(data))
}

func TestEmptyComparison_JSONShape(t *testing.T) {
	data, err := json.Marshal(EmptyComparison("resumeText and jobDescription are required"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"score":0,"similarity":0,"resumeSkills":[],"jobSkills":[],"missingSkills":[],"suggestions":[],"error":"resumeText and jobDescription are required"}`, string(data))
}

func TestChatRequest_Validate(t *testing.T) {
	valid := ChatRequest{
		Messages: []ChatMessage{{Role: "user", Content: "How do I stand out?"}},
		UserRole: RoleCandidate,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		request ChatRequest
	}{
		{"no messages", ChatRequest{}},
		{"unknown role", ChatRequest{Messages: []ChatMessage{{Role: "bot", Content: "hi"}}}},
		{"empty content", ChatRequest{Messages: []ChatMessage{{Role: "user"}}}},
		{"unknown user role", ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "hi"}}, UserRole: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.request.Validate())
		})
	}
}

func TestCompareRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CompareRequest{ResumeText: "a", JobDescription: "b"}).Validate())
	assert.Error(t, (&CompareRequest{ResumeText: "a"}).Validate())
}

func TestProfileKind(t *testing.T) {
	assert.True(t, KindCandidate.Valid())
	assert.True(t, KindJob.Valid())
	assert.False(t, ProfileKind("company").Valid())

	assert.Equal(t, KindJob, KindCandidate.Opposite())
	assert.Equal(t, KindCandidate, KindJob.Opposite())
}

func TestProfileRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ProfileRequest{Text: "Staff engineer"}).Validate())
	assert.ErrorIs(t, (&ProfileRequest{Title: "empty"}).Validate(), ErrNoInput)
	assert.Error(t, (&ProfileRequest{FileBase64: "aGVsbG8="}).Validate())
}
