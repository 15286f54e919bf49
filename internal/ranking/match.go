package ranking

import (
	"strings"

	"github.com/jonathan/jobmatch/internal/parsing"
	"github.com/jonathan/jobmatch/internal/types"
)

// Fixed blend of the match score.
const (
	similarityWeight   = 0.7
	skillOverlapWeight = 0.3
)

// MaxMatchingSkills caps MatchResult.MatchingSkills.
const MaxMatchingSkills = 10

// Match scores a candidate against a job. Overlap is the share of job skills the
// candidate has (case-insensitive); a job with no skills counts as one.
func Match(jobEmbedding, candidateEmbedding []float64, jobSkills, candidateSkills []string) types.MatchResult {
	similarity := CosineSimilarity(jobEmbedding, candidateEmbedding)
	matching := Intersect(candidateSkills, jobSkills)

	denominator := len(jobSkills)
	if denominator < 1 {
		denominator = 1
	}
	overlap := float64(len(matching)) / float64(denominator)

	if len(matching) > MaxMatchingSkills {
		matching = matching[:MaxMatchingSkills]
	}

	return types.MatchResult{
		Score:          similarityWeight*similarity + skillOverlapWeight*overlap,
		Similarity:     similarity,
		SkillOverlap:   overlap,
		MatchingSkills: matching,
	}
}

// Intersect returns the lowercased entries of candidate also in job, in candidate order, without duplicates.
func Intersect(candidate, job []string) []string {
	jobSet := parsing.FoldSet(job)

	out := make([]string, 0)
	seen := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		key := strings.ToLower(s)
		if _, ok := jobSet[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
