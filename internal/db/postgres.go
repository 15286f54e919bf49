package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jonathan/jobmatch/internal/types"
)

// PostgresStore wraps the PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool, verifies it and applies migrations.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	if err := Migrate(ctx, sqlDB, "postgres"); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Driver() string { return DriverPostgres }

// Pool returns the underlying connection pool.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// SaveProfile inserts or replaces a profile.
func (s *PostgresStore) SaveProfile(ctx context.Context, p *types.Profile) error {
	if _, err := matchColumn(p.Kind); err != nil {
		return err
	}
	skills, embedding, err := encodeProfile(p)
	if err != nil {
		return err
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO profiles (kind, id, title, text, skills, experience_years, embedding, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (kind, id) DO UPDATE SET
		     title = EXCLUDED.title,
		     text = EXCLUDED.text,
		     skills = EXCLUDED.skills,
		     experience_years = EXCLUDED.experience_years,
		     embedding = EXCLUDED.embedding,
		     updated_at = NOW()
		 RETURNING updated_at`,
		string(p.Kind), p.ID, p.Title, p.Text, skills, p.ExperienceYears, embedding,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by kind and id.
func (s *PostgresStore) GetProfile(ctx context.Context, kind types.ProfileKind, id string) (*types.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT kind, id, title, text, skills, experience_years, embedding, updated_at
		 FROM profiles WHERE kind = $1 AND id = $2`,
		string(kind), id,
	)
	p, err := scanPgProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns every profile of kind ordered by id.
func (s *PostgresStore) ListProfiles(ctx context.Context, kind types.ProfileKind) ([]types.Profile, error) {
	if _, err := matchColumn(kind); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT kind, id, title, text, skills, experience_years, embedding, updated_at
		 FROM profiles WHERE kind = $1 ORDER BY id`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []types.Profile
	for rows.Next() {
		p, err := scanPgProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// UpsertMatch inserts a match or refreshes the existing row for the pair.
func (s *PostgresStore) UpsertMatch(ctx context.Context, m types.StoredMatch) (*types.StoredMatch, error) {
	if m.Status == "" {
		m.Status = types.MatchStatusSuggested
	}
	topSkills, err := json.Marshal(nonNil(m.TopSkills))
	if err != nil {
		return nil, fmt.Errorf("failed to encode top skills: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO matches (id, candidate_id, job_id, score, similarity, skill_overlap, top_skills, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
		     score = EXCLUDED.score,
		     similarity = EXCLUDED.similarity,
		     skill_overlap = EXCLUDED.skill_overlap,
		     top_skills = EXCLUDED.top_skills,
		     status = EXCLUDED.status,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		uuid.New(), m.CandidateID, m.JobID, m.Score, m.Similarity, m.SkillOverlap, topSkills, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert match: %w", err)
	}
	return &m, nil
}

// ListMatches returns the matches of a profile, best score first.
func (s *PostgresStore) ListMatches(ctx context.Context, kind types.ProfileKind, id string) ([]types.StoredMatch, error) {
	column, err := matchColumn(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, candidate_id, job_id, score, similarity, skill_overlap, top_skills, status, created_at, updated_at
		 FROM matches WHERE `+column+` = $1
		 ORDER BY score DESC, candidate_id, job_id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []types.StoredMatch
	for rows.Next() {
		var m types.StoredMatch
		var topSkills []byte
		if err := rows.Scan(&m.ID, &m.CandidateID, &m.JobID, &m.Score, &m.Similarity,
			&m.SkillOverlap, &topSkills, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal(topSkills, &m.TopSkills); err != nil {
			return nil, fmt.Errorf("failed to decode top skills: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanPgProfile(row pgx.Row) (*types.Profile, error) {
	var p types.Profile
	var kind string
	var skills, embedding []byte
	if err := row.Scan(&kind, &p.ID, &p.Title, &p.Text, &skills, &p.ExperienceYears, &embedding, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Kind = types.ProfileKind(kind)
	if err := decodeProfile(&p, skills, embedding); err != nil {
		return nil, err
	}
	return &p, nil
}

func encodeProfile(p *types.Profile) (skills, embedding []byte, err error) {
	if skills, err = json.Marshal(nonNil(p.Skills)); err != nil {
		return nil, nil, fmt.Errorf("failed to encode skills: %w", err)
	}
	vec := p.Embedding
	if vec == nil {
		vec = []float64{}
	}
	if embedding, err = json.Marshal(vec); err != nil {
		return nil, nil, fmt.Errorf("failed to encode embedding: %w", err)
	}
	return skills, embedding, nil
}

func decodeProfile(p *types.Profile, skills, embedding []byte) error {
	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal(embedding, &p.Embedding); err != nil {
		return fmt.Errorf("failed to decode embedding: %w", err)
	}
	if len(p.Embedding) == 0 {
		p.Embedding = nil
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
