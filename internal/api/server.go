package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/api/handler"
	"github.com/vfg2006/agency-dashboard/internal/api/handler/router"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/internal/scheduler"
	"github.com/vfg2006/agency-dashboard/internal/session"
	"github.com/vfg2006/agency-dashboard/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
	sessions   *session.Manager
}

// NewHandler monta o roteador com os middlewares globais
func NewHandler(
	cfg *config.Config,
	store *i18n.Store,
	sessions *session.Manager,
	sweepService *scheduler.SessionSweepService,
) http.Handler {
	jobServices := handler.JobServices{
		SessionSweepService: sweepService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Sessions(sessions)...),
		router.WithRoutes(handler.KPIs(sessions)...),
		router.WithRoutes(handler.Languages(sessions, store)...),
		router.WithRoutes(handler.Jobs(sessions, jobServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	cfg *config.Config,
	store *i18n.Store,
	sessions *session.Manager,
	sweepService *scheduler.SessionSweepService,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, store, sessions, sweepService),
			ReadHeaderTimeout: 2 * time.Second,
		},
		sessions: sessions,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown para de aceitar requisições e encerra as sessões abertas
func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	if s.sessions != nil {
		s.sessions.CloseAll()
		logrus.Info("Sessões encerradas")
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
