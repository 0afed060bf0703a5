package server

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey string

// ownerIDKey carries the authenticated user id through the request context.
const ownerIDKey contextKey = "owner_id"

// ownerID returns the authenticated user id stored by the auth middleware.
func ownerID(r *http.Request) string {
	id, _ := r.Context().Value(ownerIDKey).(string)
	return id
}

// requireAuth resolves the Authorization bearer token to a user id and stores
// it in the request context. Everything past this middleware deals in owner
// ids only.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "invalid Authorization header format")
			return
		}

		userID, err := h.auth.VerifyToken(parts[1])
		if err != nil {
			h.log.Warn("token verification failed", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}
