package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/types"
)

type pairKey struct {
	candidate string
	job       string
}

// MemoryStore keeps profiles and matches in process memory. It is the default
// store and loses everything on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[types.ProfileKind]map[string]types.Profile
	matches  map[pairKey]types.StoredMatch
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: map[types.ProfileKind]map[string]types.Profile{
			types.KindCandidate: {},
			types.KindJob:       {},
		},
		matches: make(map[pairKey]types.StoredMatch),
		now:     time.Now,
	}
}

func (s *MemoryStore) Driver() string { return DriverMemory }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveProfile(_ context.Context, p *types.Profile) error {
	if _, err := matchColumn(p.Kind); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = s.now().UTC()
	s.profiles[p.Kind][p.ID] = cloneProfile(*p)
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context, kind types.ProfileKind, id string) (*types.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneProfile(p)
	return &out, nil
}

func (s *MemoryStore) ListProfiles(_ context.Context, kind types.ProfileKind) ([]types.Profile, error) {
	if _, err := matchColumn(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Profile, 0, len(s.profiles[kind]))
	for _, p := range s.profiles[kind] {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpsertMatch(_ context.Context, m types.StoredMatch) (*types.StoredMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{candidate: m.CandidateID, job: m.JobID}
	now := s.now().UTC()
	if existing, ok := s.matches[key]; ok {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	} else {
		m.ID = uuid.New()
		m.CreatedAt = now
	}
	if m.Status == "" {
		m.Status = types.MatchStatusSuggested
	}
	m.UpdatedAt = now
	m.TopSkills = append([]string(nil), m.TopSkills...)
	s.matches[key] = m

	out := m
	return &out, nil
}

func (s *MemoryStore) ListMatches(_ context.Context, kind types.ProfileKind, id string) ([]types.StoredMatch, error) {
	if _, err := matchColumn(kind); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.StoredMatch
	for key, m := range s.matches {
		if (kind == types.KindCandidate && key.candidate == id) || (kind == types.KindJob && key.job == id) {
			m.TopSkills = append([]string(nil), m.TopSkills...)
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func sortMatches(matches []types.StoredMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].CandidateID != matches[j].CandidateID {
			return matches[i].CandidateID < matches[j].CandidateID
		}
		return matches[i].JobID < matches[j].JobID
	})
}

func cloneProfile(p types.Profile) types.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Embedding = append([]float64(nil), p.Embedding...)
	return p
}
