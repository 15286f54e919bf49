package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIdentity struct {
	subject string
	role    string
}

func (i *testIdentity) GetSubject() (string, error) { return i.subject, nil }
func (i *testIdentity) GetRole() string             { return i.role }

// testTokenValidator accepts the tokens registered with add.
type testTokenValidator struct {
	valid map[string]*testIdentity
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{valid: make(map[string]*testIdentity)}
}

func (v *testTokenValidator) add(token, subject, role string) {
	v.valid[token] = &testIdentity{subject: subject, role: role}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (Identity, error) {
	identity, ok := v.valid[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return identity, nil
}

func serve(t *testing.T, h http.Handler, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	validator.add("tok", "alice", "candidate")

	var subject string
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentity(r)
		require.NoError(t, err)
		subject, _ = identity.GetSubject()
		assert.True(t, HasRole(r, "candidate"))
		assert.False(t, HasRole(r, "recruiter"))
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"Bearer tok", "bearer tok", "BEARER   tok"} {
		w := serve(t, handler, header)
		assert.Equal(t, http.StatusNoContent, w.Code, header)
		assert.Equal(t, "alice", subject)
	}
}

func TestAuthMiddleware_Unauthorized(t *testing.T) {
	validator := newTestTokenValidator()
	validator.add("tok", "alice", "candidate")
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler must not run")
	}))

	for _, header := range []string{"", "tok", "Basic tok", "Bearer", "Bearer wrong", "Bearer tok extra"} {
		w := serve(t, handler, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
	}
}

func TestAuthMiddleware_Roles(t *testing.T) {
	validator := newTestTokenValidator()
	validator.add("cand", "alice", "candidate")
	validator.add("rec", "bob", "recruiter")

	reached := 0
	handler := AuthMiddleware(validator, "recruiter")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached++
		w.WriteHeader(http.StatusNoContent)
	}))

	w := serve(t, handler, "Bearer cand")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())

	w = serve(t, handler, "Bearer rec")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, reached)
}

func TestGetIdentity_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetIdentity(req)
	assert.Error(t, err)
	assert.False(t, HasRole(req, "candidate"))

	ctx := context.WithValue(req.Context(), IdentityKey(), "not an identity")
	_, err = GetIdentity(req.WithContext(ctx))
	assert.Error(t, err)
}
