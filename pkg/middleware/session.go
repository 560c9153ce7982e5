package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/vfg2006/agency-dashboard/internal/session"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

type contextKey string

const (
	ContextKeySession contextKey = "session"
)

// SessionResolver encontra a sessão identificada por um token
type SessionResolver interface {
	Resolve(token string) (*session.Session, error)
}

// SessionFromContext devolve a sessão resolvida por RequireSession
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(ContextKeySession).(*session.Session)
	return s, ok && s != nil
}

// RequireSession exige um token "Bearer" válido de uma sessão ativa
func RequireSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrMissingSessionID, "Header Authorization é obrigatório", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrMissingSessionID, "Token Bearer é obrigatório", nil)
				return
			}

			s, err := resolver.Resolve(tokenString)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					apiErrors.WriteError(w, apiErrors.ErrSessionNotFound, "Sessão não encontrada", nil)
					return
				}
				log.ForContext(r.Context()).WithError(err).Warn("Token de sessão rejeitado")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token de sessão inválido", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, s)
			ctx = log.WithSessionID(ctx, s.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
