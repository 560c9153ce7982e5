package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
)

type languageRequest struct {
	Language domain.LanguageCode `json:"language"`
}

type languageResponse struct {
	Language  domain.LanguageCode   `json:"language"`
	Available []domain.LanguageCode `json:"available"`
}

func GetLanguage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, languageResponse{
			Language:  s.Language.Language(),
			Available: domain.AvailableLanguages,
		})
	})
}

func SetLanguage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		var req languageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if err := s.Language.SetLanguage(r.Context(), req.Language); err != nil {
			apiErrors.WriteError(w, i18n.CodeUnsupportedLanguage, "Idioma não suportado", map[string]any{
				"language":  req.Language,
				"available": domain.AvailableLanguages,
			})
			return
		}

		writeJSON(w, http.StatusOK, languageResponse{
			Language:  s.Language.Language(),
			Available: domain.AvailableLanguages,
		})
	})
}

func Translate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		key := httprouter.ParamsFromContext(r.Context()).ByName("key")

		writeJSON(w, http.StatusOK, map[string]any{
			"key":      key,
			"value":    s.Language.T(key),
			"language": s.Language.Language(),
		})
	})
}

func ListLanguages(store *i18n.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"default":   domain.DefaultLanguage,
			"languages": store.Languages(),
		})
	})
}

func GetDictionary(store *i18n.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := domain.LanguageCode(httprouter.ParamsFromContext(r.Context()).ByName("lang"))

		dictionary, err := store.Dictionary(lang)
		if err != nil {
			apiErrors.WriteError(w, i18n.CodeUnsupportedLanguage, "Idioma não suportado", map[string]any{
				"language":  lang,
				"available": store.Languages(),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"language":   lang,
			"dictionary": dictionary,
		})
	})
}
