package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/session"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

type createSessionRequest struct {
	Owner string `json:"owner"`
}

type sessionResponse struct {
	SessionID string              `json:"session_id"`
	Token     string              `json:"token,omitempty"`
	Owner     string              `json:"owner"`
	Language  domain.LanguageCode `json:"language"`
	Theme     domain.Theme        `json:"theme"`
}

func CreateSession(manager *session.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		s, token, err := manager.Create(r.Context(), req.Owner)
		if err != nil {
			if errors.Is(err, session.ErrMissingOwner) {
				apiErrors.WriteError(w, session.CodeMissingOwner, "O campo owner é obrigatório", nil)
				return
			}
			log.ForContext(r.Context()).WithError(err).Error("Erro ao criar sessão")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao criar sessão", nil)
			return
		}

		writeJSON(w, http.StatusCreated, sessionResponse{
			SessionID: s.ID,
			Token:     token,
			Owner:     s.Owner,
			Language:  s.Language.Language(),
			Theme:     s.Theme(),
		})
	})
}

func GetSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			SessionID: s.ID,
			Owner:     s.Owner,
			Language:  s.Language.Language(),
			Theme:     s.Theme(),
		})
	})
}

func DeleteSession(manager *session.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		if err := manager.Close(s.ID); err != nil {
			apiErrors.WriteError(w, session.CodeSessionNotFound, "Sessão não encontrada", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type themeRequest struct {
	Theme domain.Theme `json:"theme"`
}

func SetTheme() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		var req themeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if err := s.SetTheme(r.Context(), req.Theme); err != nil {
			apiErrors.WriteError(w, session.CodeInvalidTheme, "Tema inválido", map[string]any{
				"accepted": []domain.Theme{domain.ThemeLight, domain.ThemeDark},
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"theme": s.Theme()})
	})
}
