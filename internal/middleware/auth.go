package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"org-service/internal/model"
	"org-service/internal/token"
)

type tokenDecoder interface {
	Decode(tokenString string) (token.Claims, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	decoder tokenDecoder
}

func NewAuthMiddleware(decoder tokenDecoder) *AuthMiddleware {
	return &AuthMiddleware{decoder: decoder}
}

// RequireAuth is the gate every protected endpoint passes through. Only
// access-class tokens authenticate; a refresh token presented here is
// rejected even when its signature and expiry check out.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeUnauthorized(w, "missing or invalid authorization header")
			return
		}

		claims, err := m.decoder.Decode(strings.TrimSpace(header[7:]))
		if err != nil || claims.Class != token.ClassAccess {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		principal := model.Principal{ID: claims.UserID, Name: claims.Name, Email: claims.Email}
		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(model.Principal)
	return principal, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{Code: "UNAUTHORIZED", Message: message},
	})
}
