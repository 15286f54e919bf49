package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobmatch/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.AnalysisResult{
		Skills:          []string{"Python", "Docker"},
		ExperienceYears: 5,
		Embedding:       make([]float64, 384),
	})
	output := buf.String()

	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "5.0 years")
	assert.Contains(t, output, "384 dimensions")
	assert.Contains(t, output, "Skills (2)")
	assert.Contains(t, output, "• Docker")
}

func TestPrintAnalysis_ErrorAndNil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)
	assert.Empty(t, buf.String())

	p.PrintAnalysis(&types.AnalysisResult{Error: "resumeText or jobDescription is required"})
	assert.Contains(t, buf.String(), "ANALYSIS FAILED")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintComparison(&types.Comparison{
		Score:         42,
		Similarity:    0.4242,
		ResumeSkills:  []string{"Python"},
		JobSkills:     []string{"Python", "Go", "Rust", "Sql", "Aws", "Gcp", "Redis"},
		MissingSkills: []string{"Go", "Rust", "Sql", "Aws", "Gcp", "Redis"},
		Suggestions:   []string{"Add more technical skills to your resume to improve matching."},
	})
	output := buf.String()

	assert.Contains(t, output, "42 / 100")
	assert.Contains(t, output, "0.4242")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Suggestions:")
}

func TestPrintSalary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSalary(
		&types.SalaryRequest{Role: "Senior Engineer", Location: "Berlin", Experience: 4},
		&types.SalaryEstimate{Currency: "USD", Min: 85000, Max: 115000, Median: 100000, Confidence: 0.8},
	)
	output := buf.String()

	assert.Contains(t, output, "Senior Engineer")
	assert.Contains(t, output, "USD 100000")
	assert.Contains(t, output, "USD 85000 - 115000")
	assert.Contains(t, output, "80%")
}

func TestPrintMatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchSummary(&types.MatchSummary{Kind: types.KindCandidate, ID: "c1", Evaluated: 3, Skipped: 1})
	assert.Contains(t, buf.String(), "NO MATCHES (3 evaluated, 1 skipped)")

	buf.Reset()
	p.PrintMatchSummary(&types.MatchSummary{
		Kind: types.KindJob,
		ID:   "j1",
		Matches: []types.StoredMatch{
			{CandidateID: "alice", JobID: "j1", Score: 0.91, TopSkills: []string{"go", "sql"}},
		},
	})
	output := buf.String()
	assert.Contains(t, output, "MATCHES FOR JOB j1")
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "go, sql")
}

func TestPrintBox_TruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line))
	}
}
