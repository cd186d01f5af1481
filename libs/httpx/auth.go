package httpx

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const APIKeyHeader = "X-API-Key"

type authError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeAuthError(w http.ResponseWriter, status int, body authError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WithAPIKey admits requests whose X-API-Key equals secret. An empty secret
// rejects everything.
func WithAPIKey(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" || secret == "" {
				writeAuthError(w, http.StatusUnauthorized, authError{Error: "API key required", Code: "MISSING_API_KEY"})
				return
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				writeAuthError(w, http.StatusUnauthorized, authError{Error: "Unauthorized", Code: "INVALID_API_KEY"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithAllowedOrigins rejects browser requests from origins outside allowed.
// Requests without an Origin header pass. An empty list allows everything.
func WithAllowedOrigins(allowed []string) Middleware {
	origins := normalizeList(allowed)
	return func(next http.Handler) http.Handler {
		if len(origins) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !matchOrigin(origin, origins) {
				writeAuthError(w, http.StatusForbidden, authError{Error: "Forbidden origin"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func matchOrigin(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}
