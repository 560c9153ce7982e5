package handler

import (
	"net/http"

	"github.com/vfg2006/agency-dashboard/internal/api/handler/router"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/internal/session"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sessions(manager *session.Manager) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(manager)}

	return []router.Route{
		{
			Path:    "/v1/sessions",
			Method:  http.MethodPost,
			Handler: CreateSession(manager),
		},
		{
			Path:        "/v1/sessions/me",
			Method:      http.MethodGet,
			Handler:     GetSession(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/sessions/me",
			Method:      http.MethodDelete,
			Handler:     DeleteSession(manager),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/sessions/me/theme",
			Method:      http.MethodPut,
			Handler:     SetTheme(),
			Middlewares: withSession,
		},
	}
}

func KPIs(manager *session.Manager) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(manager)}

	return []router.Route{
		{
			Path:        "/v1/sessions/me/kpis",
			Method:      http.MethodGet,
			Handler:     GetKPIs(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/sessions/me/kpis/load",
			Method:      http.MethodPost,
			Handler:     LoadKPIs(),
			Middlewares: withSession,
		},
	}
}

func Languages(manager *session.Manager, store *i18n.Store) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(manager)}

	return []router.Route{
		{
			Path:        "/v1/sessions/me/language",
			Method:      http.MethodGet,
			Handler:     GetLanguage(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/sessions/me/language",
			Method:      http.MethodPut,
			Handler:     SetLanguage(),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/sessions/me/translate/:key",
			Method:      http.MethodGet,
			Handler:     Translate(),
			Middlewares: withSession,
		},
		{
			Path:    "/v1/i18n/languages",
			Method:  http.MethodGet,
			Handler: ListLanguages(store),
		},
		{
			Path:    "/v1/i18n/dictionaries/:lang",
			Method:  http.MethodGet,
			Handler: GetDictionary(store),
		},
	}
}

func Jobs(manager *session.Manager, services JobServices) []router.Route {
	withSession := []func(http.Handler) http.Handler{middleware.RequireSession(manager)}

	return []router.Route{
		{
			Path:        "/v1/jobs/run/:type",
			Method:      http.MethodPost,
			Handler:     RunJob(services),
			Middlewares: withSession,
		},
		{
			Path:        "/v1/jobs/status",
			Method:      http.MethodGet,
			Handler:     GetJobsStatus(services),
			Middlewares: withSession,
		},
	}
}
