// Package matching scores a stored profile against every stored profile of the
// opposite kind and persists the pairs that clear the threshold.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/ranking"
	"github.com/jonathan/jobmatch/internal/types"
)

// Defaults used when the configuration leaves them unset.
const (
	DefaultThreshold   = 0.3
	DefaultConcurrency = 8
)

// ErrNoEmbedding is returned when the profile being matched has no usable embedding.
var ErrNoEmbedding = errors.New("profile has no embedding")

// Matcher runs batch matching over a Store.
type Matcher struct {
	store       db.Store
	embedder    embedding.Provider
	threshold   float64
	concurrency int
	logger      *zap.Logger
}

// NewMatcher creates a Matcher. Non-positive concurrency falls back to DefaultConcurrency.
func NewMatcher(store db.Store, embedder embedding.Provider, threshold float64, concurrency int, log *zap.Logger) *Matcher {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if embedder == nil {
		embedder = embedding.NewUnavailable(embedding.DefaultDimension)
	}
	return &Matcher{
		store:       store,
		embedder:    embedder,
		threshold:   threshold,
		concurrency: concurrency,
		logger:      logger.OrNop(log).Named("matching"),
	}
}

// Threshold returns the minimum score a pair needs to be stored.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Run matches the profile (kind, id) against all profiles of the opposite kind.
// onMatch, when non-nil, is called once per stored match, never concurrently.
// Failures on individual pairs are logged and skipped.
func (m *Matcher) Run(ctx context.Context, kind types.ProfileKind, id string, onMatch func(types.StoredMatch)) (*types.MatchSummary, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown profile kind %q", kind)
	}

	source, err := m.store.GetProfile(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !m.ensureEmbedding(ctx, source) {
		return nil, ErrNoEmbedding
	}

	targets, err := m.store.ListProfiles(ctx, kind.Opposite())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s profiles: %w", kind.Opposite(), err)
	}

	summary := &types.MatchSummary{Kind: kind, ID: id, Matches: []types.StoredMatch{}}
	m.logger.Info("matching profile",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Int("targets", len(targets)))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i := range targets {
		target := targets[i]
		g.Go(func() error {
			stored, ok := m.matchPair(gctx, source, &target)

			mu.Lock()
			defer mu.Unlock()
			if !ok {
				summary.Skipped++
				return nil
			}
			summary.Evaluated++
			if stored != nil {
				summary.Matches = append(summary.Matches, *stored)
				if onMatch != nil {
					onMatch(*stored)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.logger.Info("matching complete",
		zap.String("id", id),
		zap.Int("evaluated", summary.Evaluated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("stored", len(summary.Matches)))
	return summary, nil
}

// matchPair scores one pair. ok is false when the pair was skipped; stored is nil
// when the pair scored at or below the threshold.
func (m *Matcher) matchPair(ctx context.Context, source, target *types.Profile) (stored *types.StoredMatch, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic while matching pair", zap.String("target", target.ID), zap.Any("panic", r))
			stored, ok = nil, false
		}
	}()
	if ctx.Err() != nil {
		return nil, false
	}
	if !m.ensureEmbedding(ctx, target) {
		m.logger.Debug("skipping profile without embedding",
			zap.String("kind", string(target.Kind)), zap.String("id", target.ID))
		return nil, false
	}

	job, candidate := source, target
	if source.Kind == types.KindCandidate {
		job, candidate = target, source
	}

	result := ranking.Match(job.Embedding, candidate.Embedding, job.Skills, candidate.Skills)
	if result.Score <= m.threshold {
		return nil, true
	}

	saved, err := m.store.UpsertMatch(ctx, types.StoredMatch{
		CandidateID:  candidate.ID,
		JobID:        job.ID,
		Score:        result.Score,
		Similarity:   result.Similarity,
		SkillOverlap: result.SkillOverlap,
		TopSkills:    result.MatchingSkills,
		Status:       types.MatchStatusSuggested,
	})
	if err != nil {
		m.logger.Warn("failed to store match",
			zap.String("candidate", candidate.ID), zap.String("job", job.ID), zap.Error(err))
		return nil, false
	}
	return saved, true
}

// ensureEmbedding reports whether p has a usable embedding. Jobs without one are
// embedded from their text and saved; candidates are never re-embedded.
func (m *Matcher) ensureEmbedding(ctx context.Context, p *types.Profile) bool {
	if len(p.Embedding) > 0 && !embedding.IsZero(p.Embedding) {
		return true
	}
	if p.Kind != types.KindJob || !m.embedder.Available() {
		return false
	}

	vec := m.embedder.Embed(ctx, p.Text)
	if embedding.IsZero(vec) {
		m.logger.Warn("failed to generate embedding for job", zap.String("id", p.ID))
		return false
	}
	p.Embedding = vec
	if err := m.store.SaveProfile(ctx, p); err != nil {
		m.logger.Warn("failed to save job embedding", zap.String("id", p.ID), zap.Error(err))
	}
	return true
}
