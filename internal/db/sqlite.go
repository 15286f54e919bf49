package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/jobmatch/internal/types"
)

// SQLiteStore persists profiles in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := Migrate(ctx, db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Driver() string { return DriverSQLite }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) SaveProfile(ctx context.Context, p *types.Profile) error {
	if _, err := matchColumn(p.Kind); err != nil {
		return err
	}
	skills, embedding, err := encodeProfile(p)
	if err != nil {
		return err
	}
	now := s.now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (kind, id, title, text, skills, experience_years, embedding, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET
		     title = excluded.title,
		     text = excluded.text,
		     skills = excluded.skills,
		     experience_years = excluded.experience_years,
		     embedding = excluded.embedding,
		     updated_at = excluded.updated_at`,
		string(p.Kind), p.ID, p.Title, p.Text, string(skills), p.ExperienceYears, string(embedding), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, kind types.ProfileKind, id string) (*types.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT kind, id, title, text, skills, experience_years, embedding, updated_at
		 FROM profiles WHERE kind = ? AND id = ?`,
		string(kind), id,
	)
	p, err := scanSQLiteProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) ListProfiles(ctx context.Context, kind types.ProfileKind) ([]types.Profile, error) {
	if _, err := matchColumn(kind); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, id, title, text, skills, experience_years, embedding, updated_at
		 FROM profiles WHERE kind = ? ORDER BY id`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []types.Profile
	for rows.Next() {
		p, err := scanSQLiteProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *SQLiteStore) UpsertMatch(ctx context.Context, m types.StoredMatch) (*types.StoredMatch, error) {
	if m.Status == "" {
		m.Status = types.MatchStatusSuggested
	}
	topSkills, err := json.Marshal(nonNil(m.TopSkills))
	if err != nil {
		return nil, fmt.Errorf("failed to encode top skills: %w", err)
	}
	now := formatTime(s.now().UTC())

	var id, createdAt, updatedAt string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO matches (id, candidate_id, job_id, score, similarity, skill_overlap, top_skills, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
		     score = excluded.score,
		     similarity = excluded.similarity,
		     skill_overlap = excluded.skill_overlap,
		     top_skills = excluded.top_skills,
		     status = excluded.status,
		     updated_at = excluded.updated_at
		 RETURNING id, created_at, updated_at`,
		uuid.NewString(), m.CandidateID, m.JobID, m.Score, m.Similarity, m.SkillOverlap, string(topSkills), m.Status, now, now,
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert match: %w", err)
	}
	if err := fillMatchMeta(&m, id, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) ListMatches(ctx context.Context, kind types.ProfileKind, id string) ([]types.StoredMatch, error) {
	column, err := matchColumn(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, candidate_id, job_id, score, similarity, skill_overlap, top_skills, status, created_at, updated_at
		 FROM matches WHERE `+column+` = ?
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
		var matchID, topSkills, createdAt, updatedAt string
		if err := rows.Scan(&matchID, &m.CandidateID, &m.JobID, &m.Score, &m.Similarity,
			&m.SkillOverlap, &topSkills, &m.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal([]byte(topSkills), &m.TopSkills); err != nil {
			return nil, fmt.Errorf("failed to decode top skills: %w", err)
		}
		if err := fillMatchMeta(&m, matchID, createdAt, updatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProfile(row rowScanner) (*types.Profile, error) {
	var p types.Profile
	var kind, skills, embedding, updatedAt string
	if err := row.Scan(&kind, &p.ID, &p.Title, &p.Text, &skills, &p.ExperienceYears, &embedding, &updatedAt); err != nil {
		return nil, err
	}
	p.Kind = types.ProfileKind(kind)
	if err := decodeProfile(&p, []byte(skills), []byte(embedding)); err != nil {
		return nil, err
	}
	t, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = t
	return &p, nil
}

func fillMatchMeta(m *types.StoredMatch, id, createdAt, updatedAt string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid match id %q: %w", id, err)
	}
	m.ID = parsed
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return err
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
