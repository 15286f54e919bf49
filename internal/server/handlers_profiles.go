package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/server/middleware"
	"github.com/jonathan/jobmatch/internal/types"
)

const maxProfileIDLength = 128

// matchList is returned by GET /profiles/{kind}/{id}/matches.
type matchList struct {
	Kind    types.ProfileKind   `json:"kind"`
	ID      string              `json:"id"`
	Matches []types.StoredMatch `json:"matches"`
}

// profilePath reads and checks the {kind} and {id} path values.
func (s *Server) profilePath(w http.ResponseWriter, r *http.Request) (types.ProfileKind, string, bool) {
	kind := types.ProfileKind(r.PathValue("kind"))
	if !kind.Valid() {
		s.errorFromErr(w, r, &ErrValidation{Field: "kind", Message: "must be candidate or job"})
		return "", "", false
	}
	id := r.PathValue("id")
	if id == "" || len(id) > maxProfileIDLength {
		s.errorFromErr(w, r, &ErrValidation{Field: "id", Message: "must be 1 to 128 characters"})
		return "", "", false
	}
	return kind, id, true
}

// authorizeKind requires the role that owns profiles of kind: recruiters own jobs,
// candidates own resumes.
func (s *Server) authorizeKind(w http.ResponseWriter, r *http.Request, kind types.ProfileKind) bool {
	if !s.authRequired {
		return true
	}
	role := types.RoleCandidate
	if kind == types.KindJob {
		role = types.RoleRecruiter
	}
	if !middleware.HasRole(r, role) {
		s.errorResponse(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.profilePath(w, r)
	if !ok || !s.authorizeKind(w, r, kind) {
		return
	}

	var req types.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		if !errors.Is(err, types.ErrNoInput) {
			err = validationError(err)
		}
		s.errorFromErr(w, r, err)
		return
	}

	text, err := requestText(req.Text, req.FileName, req.FileBase64)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	result := s.providers.Analysis.Analyze(r.Context(), text)
	if result.Error != "" {
		s.errorResponse(w, resultStatus(result.Error), result.Error)
		return
	}

	profile := &types.Profile{
		Kind:            kind,
		ID:              id,
		Title:           req.Title,
		Text:            text,
		Skills:          result.Skills,
		ExperienceYears: result.ExperienceYears,
	}
	if !embedding.IsZero(result.Embedding) {
		profile.Embedding = result.Embedding
	}
	if err := s.providers.Store.SaveProfile(r.Context(), profile); err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	s.requestLogger(r).Info("profile saved",
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Int("skills", len(profile.Skills)),
		zap.Bool("embedded", profile.Embedding != nil))
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.profilePath(w, r)
	if !ok {
		return
	}

	profile, err := s.providers.Store.GetProfile(r.Context(), kind, id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleRunMatches(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.profilePath(w, r)
	if !ok || !s.authorizeKind(w, r, kind) {
		return
	}

	summary, err := s.providers.Matcher.Run(r.Context(), kind, id, nil)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleStreamMatches runs matching and streams one "match" event per stored pair,
// then a "complete" event.
func (s *Server) handleStreamMatches(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.profilePath(w, r)
	if !ok || !s.authorizeKind(w, r, kind) {
		return
	}

	// Fail with a plain status before the stream starts.
	if _, err := s.providers.Store.GetProfile(r.Context(), kind, id); err != nil {
		s.errorFromErr(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary, err := s.providers.Matcher.Run(r.Context(), kind, id, func(m types.StoredMatch) {
		if err := sse.WriteEvent("match", m); err != nil {
			s.requestLogger(r).Debug("failed to write match event", zap.Error(err))
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(string(summary.Kind), summary.ID, summary.Evaluated, summary.Skipped, len(summary.Matches))
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := s.profilePath(w, r)
	if !ok {
		return
	}

	matches, err := s.providers.Store.ListMatches(r.Context(), kind, id)
	if err != nil {
		s.errorFromErr(w, r, err)
		return
	}
	if matches == nil {
		matches = []types.StoredMatch{}
	}
	s.jsonResponse(w, http.StatusOK, matchList{Kind: kind, ID: id, Matches: matches})
}
