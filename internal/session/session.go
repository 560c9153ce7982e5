package session

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/format"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/internal/usecases/kpi"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"golang.org/x/text/currency"
)

// Session agrupa o estado de um visitante do painel: idioma, KPIs e tema
type Session struct {
	ID        string
	Owner     string
	CreatedAt time.Time

	Language *i18n.LanguageContext
	KPI      *kpi.Loader

	preferences repository.PreferenceRepository
	currency    currency.Unit

	mu       sync.RWMutex
	theme    domain.Theme
	lastSeen time.Time
}

func (s *Session) Theme() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme troca o tema; falhas ao persistir são registradas e não desfazem a troca
func (s *Session) SetTheme(ctx context.Context, theme domain.Theme) error {
	if !theme.IsValid() {
		return ErrInvalidTheme
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()

	if s.preferences == nil {
		return nil
	}

	if err := s.preferences.SavePreference(ctx, s.Owner, domain.PreferenceTheme, string(theme)); err != nil {
		log.ForContext(ctx).WithError(err).WithField("theme", theme).Warn("Erro ao salvar preferência de tema")
	}

	return nil
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Formatter devolve um formatador no idioma corrente da sessão
func (s *Session) Formatter(opts ...format.Option) *format.Formatter {
	opts = append([]format.Option{format.WithCurrency(s.currency)}, opts...)
	return format.New(s.Language.Language(), opts...)
}

func (s *Session) close() {
	s.KPI.Close()
	s.Language.Close()
}
