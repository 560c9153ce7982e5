package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/scheduler"
	"github.com/vfg2006/agency-dashboard/pkg/apiErrors"
)

// Tipos de job que podem ser executados manualmente
const (
	JobTypeSessionSweep = "session-sweep"
	JobTypeAll          = "all"
)

// JobServices contém os serviços agendados que podem ser executados manualmente
type JobServices struct {
	SessionSweepService *scheduler.SessionSweepService
}

// RunJob executa manualmente um job específico
func RunJob(services JobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch jobType {
		case JobTypeSessionSweep, JobTypeAll:
			if services.SessionSweepService == nil {
				apiErrors.WriteError(w, apiErrors.ErrUnavailable, "Serviço de limpeza de sessões não disponível", nil)
				return
			}

			if !services.SessionSweepService.TriggerManualRun() {
				writeJSON(w, http.StatusConflict, map[string]any{
					"message": "Job já está em execução",
					"type":    jobType,
				})
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de job inválido. Valores aceitos: session-sweep, all", nil)
			return
		}

		logrus.WithField("type", jobType).Info("Job iniciado manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Job iniciado com sucesso",
			"type":    jobType,
		})
	})
}

// GetJobsStatus retorna o status dos jobs agendados
func GetJobsStatus(services JobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}

		if services.SessionSweepService != nil {
			status[JobTypeSessionSweep] = services.SessionSweepService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	})
}
