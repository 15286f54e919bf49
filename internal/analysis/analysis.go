// Package analysis runs the extraction pipeline over resumes and job descriptions:
// skills and experience are extracted concurrently, then the text is embedded.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/experience"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/parsing"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/skills"
	"github.com/jonathan/jobmatch/internal/types"
)

// Error messages carried by zeroed results.
const (
	MsgNoText          = "resumeText or jobDescription is required"
	MsgCompareInputs   = "resumeText and jobDescription are required"
	MsgInternalFailure = "internal error while analyzing text"
)

const (
	maxMissingSkills     = 10
	maxSuggestedSkills   = 5
	lowScoreThreshold    = 70
	minimumResumeSkills  = 5
	suggestHighlight     = "Consider highlighting more relevant skills and experience that match the job description."
	suggestAddSkills     = "Consider adding these skills: %s"
	suggestMoreTechnical = "Add more technical skills to your resume to improve matching."
)

// Signals are the per-document extraction results.
type Signals struct {
	Document        parsing.Document
	Skills          skills.Set
	ExperienceYears float64
}

// Service wires the extractors and the embedding capability together.
type Service struct {
	extractor *skills.Extractor
	estimator *experience.Estimator
	embedder  embedding.Provider
	logger    *zap.Logger
}

// NewService builds a Service. A nil embedder behaves as embedding.Unavailable.
func NewService(extractor *skills.Extractor, estimator *experience.Estimator, embedder embedding.Provider, log *zap.Logger) *Service {
	if extractor == nil {
		extractor = skills.NewExtractor(nil, nil, log)
	}
	if estimator == nil {
		estimator = experience.NewEstimator(0)
	}
	if embedder == nil {
		embedder = embedding.NewUnavailable(0)
	}
	return &Service{
		extractor: extractor,
		estimator: estimator,
		embedder:  embedder,
		logger:    logger.OrNop(log).Named("analysis"),
	}
}

// Embedder returns the embedding capability.
func (s *Service) Embedder() embedding.Provider {
	return s.embedder
}

// Extract runs skill and experience extraction concurrently.
func (s *Service) Extract(ctx context.Context, text string) Signals {
	signals, err := s.extract(ctx, text)
	if err != nil {
		s.logger.Error("extraction failed", zap.Error(err))
	}
	return signals
}

func (s *Service) extract(ctx context.Context, text string) (Signals, error) {
	doc := parsing.NewDocument(text)
	signals := Signals{Document: doc, Skills: skills.Set{}}

	var g errgroup.Group
	g.Go(safe("skills", func() {
		signals.Skills = s.extractor.ExtractDocument(ctx, doc)
	}))
	g.Go(safe("experience", func() {
		signals.ExperienceYears = s.estimator.Estimate(doc.Raw)
	}))
	err := g.Wait()

	return signals, err
}

// Analyze extracts the signals of one document and embeds it.
func (s *Service) Analyze(ctx context.Context, text string) (result types.AnalysisResult) {
	defer s.recoverInto("analyze", func() { result = types.EmptyAnalysis(MsgInternalFailure) })

	if parsing.IsBlank(text) {
		return types.EmptyAnalysis(MsgNoText)
	}

	signals, err := s.extract(ctx, text)
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		return types.EmptyAnalysis(MsgInternalFailure)
	}
	vector := s.embedder.Embed(ctx, text)

	return types.AnalysisResult{
		Text:            text,
		Skills:          signals.Skills,
		ExperienceYears: signals.ExperienceYears,
		Embedding:       vector,
	}
}

// Compare scores a resume against a job description. Blank inputs short-circuit
// before any embedding call.
func (s *Service) Compare(ctx context.Context, resumeText, jobText string) (result types.Comparison) {
	defer s.recoverInto("compare", func() { result = types.EmptyComparison(MsgInternalFailure) })

	if parsing.IsBlank(resumeText) || parsing.IsBlank(jobText) {
		return types.EmptyComparison(MsgCompareInputs)
	}

	var (
		resume, job       Signals
		resumeVec, jobVec embedding.Vector
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if resume, err = s.extract(gctx, resumeText); err != nil {
			return err
		}
		return safe("embed resume", func() { resumeVec = s.embedder.Embed(gctx, resumeText) })()
	})
	g.Go(func() error {
		var err error
		if job, err = s.extract(gctx, jobText); err != nil {
			return err
		}
		return safe("embed job", func() { jobVec = s.embedder.Embed(gctx, jobText) })()
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("comparison failed", zap.Error(err))
		return types.EmptyComparison(MsgInternalFailure)
	}

	similarity := ranking.CosineSimilarity(resumeVec, jobVec)
	score := int(similarity * 100)
	missing := skills.Missing(job.Skills, resume.Skills, maxMissingSkills)

	return types.Comparison{
		Score:         score,
		Similarity:    similarity,
		ResumeSkills:  resume.Skills,
		JobSkills:     job.Skills,
		MissingSkills: missing,
		Suggestions:   suggestions(score, missing, len(resume.Skills)),
	}
}

func suggestions(score int, missing []string, resumeSkillCount int) []string {
	out := make([]string, 0, 3)
	if score < lowScoreThreshold {
		out = append(out, suggestHighlight)
	}
	if len(missing) > 0 {
		top := missing
		if len(top) > maxSuggestedSkills {
			top = top[:maxSuggestedSkills]
		}
		out = append(out, fmt.Sprintf(suggestAddSkills, strings.Join(top, ", ")))
	}
	if resumeSkillCount < minimumResumeSkills {
		out = append(out, suggestMoreTechnical)
	}
	return out
}

func (s *Service) recoverInto(op string, fallback func()) {
	if r := recover(); r != nil {
		s.logger.Error("recovered from panic", zap.String("operation", op), zap.Any("panic", r), zap.Stack("stack"))
		fallback()
	}
}

// safe runs fn, turning a panic into an error.
func safe(step string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", step, r)
			}
		}()
		fn()
		return nil
	}
}
