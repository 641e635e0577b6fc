package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pfinal/passport/internal/application/token"
)

// AuthValidator verifies the bearer token and sets the user id in context
// (see UserIDFromContext).
type AuthValidator struct {
	tokens *token.Service
}

func NewAuthValidator(tokens *token.Service) *AuthValidator {
	return &AuthValidator{tokens: tokens}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			writeUnauthorized(w, "missing or invalid authorization")
			return
		}
		verified, err := m.tokens.Verify(r.Context(), strings.TrimPrefix(auth, "Bearer "), false)
		if err != nil {
			writeUnauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), verified.UserID)))
	})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
