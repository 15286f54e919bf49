// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for storing the authenticated identity.
const identityKey ContextKey = "identity"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (Identity, error)
}

// Identity is the authenticated caller extracted from token claims.
type Identity interface {
	GetSubject() (string, error)
	GetRole() string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the identity
// to the request context. When roles are given, identities with any other role get 403.
func AuthMiddleware(validator TokenValidator, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			identity, err := validator.ValidateToken(tokenString)
			if err != nil {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if len(roles) > 0 && !slices.Contains(roles, identity.GetRole()) {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses a case-insensitive "Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(r *http.Request) (Identity, error) {
	identity, ok := r.Context().Value(identityKey).(Identity)
	if !ok {
		return nil, fmt.Errorf("identity not found in request context")
	}
	return identity, nil
}

// HasRole reports whether the authenticated caller has role.
func HasRole(r *http.Request, role string) bool {
	identity, err := GetIdentity(r)
	return err == nil && identity.GetRole() == role
}

// IdentityKey returns the context key for the identity (for testing purposes).
func IdentityKey() ContextKey {
	return identityKey
}
