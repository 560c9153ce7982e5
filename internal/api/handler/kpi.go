package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/format"
	"github.com/vfg2006/agency-dashboard/internal/session"
	"github.com/vfg2006/agency-dashboard/internal/usecases/kpi"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
	"github.com/vfg2006/agency-dashboard/pkg/log"
)

// Tempo máximo que uma requisição com wait=true aguarda a carga
const maxLoadWait = 30 * time.Second

// kpiResponse é a visão {loading, error, data} consumida pelos painéis
type kpiResponse struct {
	Token       uint64                    `json:"token"`
	WindowDays  int                       `json:"window_days"`
	Loading     bool                      `json:"loading"`
	Error       *string                   `json:"error"`
	ErrorKey    string                    `json:"error_key,omitempty"`
	ErrorCode   string                    `json:"error_code,omitempty"`
	Data        *domain.MetricsSnapshot   `json:"data"`
	Formatted   *format.FormattedSnapshot `json:"formatted,omitempty"`
	PeriodLabel string                    `json:"period_label,omitempty"`
}

func newKPIResponse(s *session.Session, state kpi.State) kpiResponse {
	resp := kpiResponse{
		Token:      state.Token,
		WindowDays: state.WindowDays,
		Loading:    state.Loading,
		Data:       state.Data,
	}

	if state.Error != "" {
		message := s.Language.T(state.Error)
		resp.Error = &message
		resp.ErrorKey = state.Error

		var loadErr *kpi.LoadError
		if errors.As(state.Err, &loadErr) {
			resp.ErrorCode = loadErr.Code
		}
	}

	if state.Token > 0 {
		f := s.Formatter()
		resp.Formatted = f.Snapshot(state.Data)
		resp.PeriodLabel = f.PeriodLabel(state.WindowDays)
	}

	return resp
}

func GetKPIs() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		writeJSON(w, http.StatusOK, newKPIResponse(s, s.KPI.State()))
	})
}

// LoadKPIs inicia a carga da janela pedida; com wait=true responde só depois que ela termina
func LoadKPIs() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := currentSession(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		window, err := strconv.Atoi(query.Get("window"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro window deve ser um número de dias", map[string]any{
				"supported": s.KPI.SupportedWindows(),
			})
			return
		}

		token := s.KPI.Load(r.Context(), window)
		if token == 0 {
			apiErrors.WriteError(w, session.CodeSessionNotFound, "Sessão encerrada", nil)
			return
		}

		logger := log.ForContext(r.Context()).WithFields(log.Fields{
			"window_days": window,
			"token":       token,
		})

		wait, _ := strconv.ParseBool(query.Get("wait"))
		if !wait {
			logger.Debug("Carga de KPIs iniciada")
			writeJSON(w, http.StatusAccepted, newKPIResponse(s, s.KPI.State()))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), maxLoadWait)
		defer cancel()

		state, err := s.KPI.Wait(ctx, token)
		if err != nil && !errors.Is(err, kpi.ErrLoaderClosed) {
			logger.WithError(err).Warn("Espera pela carga de KPIs interrompida")
			writeJSON(w, http.StatusAccepted, newKPIResponse(s, state))
			return
		}

		writeJSON(w, http.StatusOK, newKPIResponse(s, state))
	})
}
