package server

import (
	"bufio"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/types"
)

func putProfile(t *testing.T, h http.Handler, kind, id, text string) types.Profile {
	t.Helper()
	rec := do(t, h, http.MethodPut, "/profiles/"+kind+"/"+id, map[string]string{"title": id, "text": text}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[types.Profile](t, rec)
}

func TestPutAndGetProfile(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.Handler()

	saved := putProfile(t, h, "candidate", "c1", "Python and Docker developer")
	assert.Equal(t, types.KindCandidate, saved.Kind)
	assert.Equal(t, []string{"Python", "Docker"}, saved.Skills)
	assert.Equal(t, []float64{1, 1, 0}, saved.Embedding)
	assert.False(t, saved.UpdatedAt.IsZero())

	rec := do(t, h, http.MethodGet, "/profiles/candidate/c1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[types.Profile](t, rec)
	assert.Equal(t, "c1", got.Title)
	assert.Equal(t, saved.Skills, got.Skills)

	// No marker words embeds to the zero vector, which is not stored.
	unembedded := putProfile(t, h, "job", "j1", "Kubernetes operator")
	assert.Nil(t, unembedded.Embedding)
}

func TestProfileErrors(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.Handler()

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown kind", http.MethodGet, "/profiles/company/x", nil, http.StatusBadRequest},
		{"id too long", http.MethodGet, "/profiles/job/" + strings.Repeat("a", 129), nil, http.StatusBadRequest},
		{"missing profile", http.MethodGet, "/profiles/job/nope", nil, http.StatusNotFound},
		{"no text", http.MethodPut, "/profiles/job/j1", map[string]string{"title": "x"}, http.StatusBadRequest},
		{"malformed body", http.MethodPut, "/profiles/job/j1", "{", http.StatusBadRequest},
		{"title too long", http.MethodPut, "/profiles/job/j1", map[string]string{"text": "Go", "title": strings.Repeat("t", 201)}, http.StatusBadRequest},
		{"match missing profile", http.MethodPost, "/profiles/job/nope/matches", nil, http.StatusNotFound},
		{"stream missing profile", http.MethodPost, "/profiles/job/nope/matches/stream", nil, http.StatusNotFound},
		{"list bad kind", http.MethodGet, "/profiles/jobs/x/matches", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body, "")
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
		})
	}
}

func TestRunMatches(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.Handler()

	putProfile(t, h, "candidate", "c1", "Python and Docker developer")
	putProfile(t, h, "candidate", "c2", "Product design lead")
	putProfile(t, h, "job", "j1", "Python engineer with Docker")

	rec := do(t, h, http.MethodPost, "/profiles/job/j1/matches", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[types.MatchSummary](t, rec)
	assert.Equal(t, 2, summary.Evaluated)
	require.Len(t, summary.Matches, 1)
	match := summary.Matches[0]
	assert.Equal(t, "c1", match.CandidateID)
	assert.Equal(t, "j1", match.JobID)
	assert.InDelta(t, 1.0, match.Score, 1e-9)
	assert.Equal(t, types.MatchStatusSuggested, match.Status)
	assert.Equal(t, []string{"python", "docker"}, match.TopSkills)

	for _, path := range []string{"/profiles/job/j1/matches", "/profiles/candidate/c1/matches"} {
		rec = do(t, h, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeBody[matchList](t, rec)
		require.Len(t, list.Matches, 1, path)
		assert.Equal(t, match.ID, list.Matches[0].ID)
	}

	rec = do(t, h, http.MethodGet, "/profiles/candidate/c2/matches", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matches":[]`)
}

func TestRunMatches_SourceWithoutEmbedding(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.Handler()

	putProfile(t, h, "candidate", "c1", "Kubernetes operator")

	rec := do(t, h, http.MethodPost, "/profiles/candidate/c1/matches", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStreamMatches(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.Handler()

	putProfile(t, h, "candidate", "c1", "Python and Docker developer")
	putProfile(t, h, "job", "j1", "Python engineer with Docker")
	putProfile(t, h, "job", "j2", "Python backend")

	rec := do(t, h, http.MethodPost, "/profiles/candidate/c1/matches/stream", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var events []string
	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	assert.Equal(t, []string{"match", "match", "complete"}, events)
	assert.Contains(t, rec.Body.String(), `"stored":2`)
}
