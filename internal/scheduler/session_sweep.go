package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/config"
)

//go:generate mockgen -source=session_sweep.go -destination=mocks/mock_session_sweep.go -package=mocks

// SessionSweeper encerra sessões ociosas
type SessionSweeper interface {
	Sweep(idle time.Duration) int
}

// SessionSweepConfig representa a configuração do agendador de limpeza de sessões
type SessionSweepConfig struct {
	CronSchedule string
	IdleTTL      time.Duration
	Enabled      bool
}

// SessionSweepService encerra periodicamente as sessões do painel sem acesso recente
type SessionSweepService struct {
	scheduler *gocron.Scheduler
	config    SessionSweepConfig
	sweeper   SessionSweeper

	runMutex        sync.Mutex
	running         bool
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastClosed      int
}

func NewSessionSweepService(sweeper SessionSweeper, appConfig *config.Config) *SessionSweepService {
	sweepConfig := SessionSweepConfig{
		CronSchedule: appConfig.SessionSweep.CronSchedule,
		IdleTTL:      appConfig.Session.IdleTTL,
		Enabled:      appConfig.SessionSweep.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": sweepConfig.CronSchedule,
		"idle_ttl":      sweepConfig.IdleTTL.String(),
		"enabled":       sweepConfig.Enabled,
	}).Info("Configuração do agendador de limpeza de sessões carregada")

	return &SessionSweepService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    sweepConfig,
		sweeper:   sweeper,
	}
}

// Start agenda a limpeza e para o agendador quando ctx é cancelado
func (s *SessionSweepService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Limpeza de sessões desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de limpeza de sessões")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.sweep)
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de sessões: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de limpeza de sessões")
		s.scheduler.Stop()
	}()

	return nil
}

// sweep executa uma limpeza; execuções sobrepostas são ignoradas
func (s *SessionSweepService) sweep() {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		logrus.Info("Limpeza de sessões já em andamento, ignorando")
		return
	}
	s.running = true
	s.lastStartedAt = time.Now()
	s.runMutex.Unlock()

	startTime := time.Now()
	closed := s.sweeper.Sweep(s.config.IdleTTL)

	s.runMutex.Lock()
	s.running = false
	s.lastCompletedAt = time.Now()
	s.lastClosed = closed
	s.runMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"closed":   closed,
	}).Info("Limpeza de sessões concluída")
}

// TriggerManualRun dispara uma limpeza fora do agendamento
func (s *SessionSweepService) TriggerManualRun() bool {
	s.runMutex.Lock()
	running := s.running
	s.runMutex.Unlock()

	if running {
		logrus.Info("Limpeza de sessões já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando limpeza manual de sessões")
	go s.sweep()
	return true
}

// Running indica se há uma limpeza em execução
func (s *SessionSweepService) Running() bool {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	return s.running
}

// GetStatus retorna o status atual do agendador
func (s *SessionSweepService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return map[string]any{
		"enabled":           s.config.Enabled,
		"cron":              s.config.CronSchedule,
		"idle_ttl":          s.config.IdleTTL.String(),
		"running":           s.running,
		"last_started_at":   s.lastStartedAt,
		"last_completed_at": s.lastCompletedAt,
		"last_closed":       s.lastClosed,
	}
}
