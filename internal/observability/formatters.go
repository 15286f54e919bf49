// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the analyze, compare and salary commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// writeList writes up to max items as bullets, noting how many were left out.
func writeList(sb *strings.Builder, heading string, items []string, max int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), max)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > max {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-max))
	}
}

// PrintAnalysis outputs the skills and experience extracted from one document.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	if result.Error != "" {
		p.printBox("ANALYSIS FAILED", result.Error)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Experience: %.1f years\n", result.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Embedding:  %d dimensions\n", len(result.Embedding)))
	sb.WriteString("\n")
	if len(result.Skills) == 0 {
		sb.WriteString("No skills found\n")
	}
	writeList(&sb, fmt.Sprintf("Skills (%d)", len(result.Skills)), result.Skills, 10)

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs a resume-vs-job comparison with its suggestions.
func (p *Printer) PrintComparison(c *types.Comparison) {
	if c == nil {
		return
	}
	if c.Error != "" {
		p.printBox("COMPARISON FAILED", c.Error)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:      %d / 100\n", c.Score))
	sb.WriteString(fmt.Sprintf("Similarity: %.4f\n", c.Similarity))
	sb.WriteString(fmt.Sprintf("Resume skills: %d   Job skills: %d\n", len(c.ResumeSkills), len(c.JobSkills)))
	sb.WriteString("\n")
	writeList(&sb, "Missing skills", c.MissingSkills, maxItemsToShow)

	if len(c.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range c.Suggestions {
			sb.WriteString(fmt.Sprintf("  → %s\n", s))
		}
	}

	p.printBox("RESUME VS JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSalary outputs a salary estimate.
func (p *Printer) PrintSalary(req *types.SalaryRequest, est *types.SalaryEstimate) {
	if est == nil {
		return
	}

	var sb strings.Builder
	if req != nil {
		sb.WriteString(fmt.Sprintf("Role:       %s\n", req.Role))
		if req.Location != "" {
			sb.WriteString(fmt.Sprintf("Location:   %s\n", req.Location))
		}
		sb.WriteString(fmt.Sprintf("Experience: %g years\n", req.Experience))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Median: %s %d\n", est.Currency, est.Median))
	sb.WriteString(fmt.Sprintf("Range:  %s %d - %d\n", est.Currency, est.Min, est.Max))
	sb.WriteString(fmt.Sprintf("Confidence: %.0f%%", est.Confidence*100))

	p.printBox("SALARY ESTIMATE", sb.String())
}

// PrintMatchSummary outputs the stored matches of a batch matching run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatchSummary(summary *types.MatchSummary) {
	if summary == nil {
		return
	}
	if len(summary.Matches) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("NO MATCHES (%d evaluated, %d skipped)", summary.Evaluated, summary.Skipped))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Evaluated %d, skipped %d, stored %d\n\n", summary.Evaluated, summary.Skipped, len(summary.Matches)))

	count := min(len(summary.Matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := summary.Matches[i]
		other := m.JobID
		if summary.Kind == types.KindJob {
			other = m.CandidateID
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, other))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (similarity %.2f, overlap %.2f)\n", m.Score, m.Similarity, m.SkillOverlap))
		if len(m.TopSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", truncate(strings.Join(m.TopSkills, ", "), 40)))
		}
	}
	if len(summary.Matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(summary.Matches)-maxItemsToShow))
	}

	p.printBox("MATCHES FOR "+strings.ToUpper(string(summary.Kind))+" "+summary.ID, strings.TrimSuffix(sb.String(), "\n"))
}
