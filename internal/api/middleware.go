// internal/api/middleware.go
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"propshare-admin/internal/auth"
	"propshare-admin/internal/domain"
)

// RequireAdmin gates a route subtree behind a valid admin bearer token. The
// verified claims are placed in the request context so handlers can stamp the
// acting admin on processed records.
func RequireAdmin(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil || claims.Role != domain.RoleAdmin {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
