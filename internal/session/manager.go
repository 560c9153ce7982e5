package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/format"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/internal/usecases/kpi"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
	"golang.org/x/text/currency"
)

// Manager cria e mantém as sessões ativas em memória
type Manager struct {
	store       *i18n.Store
	fetcher     kpi.MetricsFetcher
	preferences repository.PreferenceRepository
	issuer      *TokenIssuer

	loaderOptions   []kpi.Option
	defaultLanguage domain.LanguageCode
	currency        currency.Unit
	now             func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

type Option func(*Manager)

// WithPreferences persiste idioma e tema por dono da sessão
func WithPreferences(preferences repository.PreferenceRepository) Option {
	return func(m *Manager) { m.preferences = preferences }
}

// WithLoaderOptions repassa opções para o carregador de KPIs de cada sessão
func WithLoaderOptions(opts ...kpi.Option) Option {
	return func(m *Manager) { m.loaderOptions = append(m.loaderOptions, opts...) }
}

func WithDefaultLanguage(code domain.LanguageCode) Option {
	return func(m *Manager) {
		if code.IsSupported() {
			m.defaultLanguage = code
		}
	}
}

func WithDisplayCurrency(unit currency.Unit) Option {
	return func(m *Manager) { m.currency = unit }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store *i18n.Store, fetcher kpi.MetricsFetcher, issuer *TokenIssuer, opts ...Option) *Manager {
	m := &Manager{
		store:           store,
		fetcher:         fetcher,
		issuer:          issuer,
		defaultLanguage: domain.DefaultLanguage,
		currency:        format.DefaultCurrency,
		now:             time.Now,
		sessions:        make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create abre uma sessão para owner e devolve o token assinado que a identifica
func (m *Manager) Create(ctx context.Context, owner string) (*Session, string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, "", ErrMissingOwner
	}

	id, err := utils.GenerateID(utils.SessionIDLength)
	if err != nil {
		return nil, "", err
	}

	token, err := m.issuer.Issue(id, owner)
	if err != nil {
		return nil, "", err
	}

	ctx = log.WithSessionID(ctx, id)
	now := m.now()

	languageOptions := []i18n.ContextOption{i18n.WithInitialLanguage(m.defaultLanguage)}
	if m.preferences != nil {
		languageOptions = append(languageOptions, i18n.WithPreferences(owner, m.preferences))
	}

	s := &Session{
		ID:          id,
		Owner:       owner,
		CreatedAt:   now,
		Language:    i18n.NewLanguageContext(ctx, m.store, languageOptions...),
		KPI:         kpi.NewLoader(m.fetcher, m.loaderOptions...),
		preferences: m.preferences,
		currency:    m.currency,
		theme:       m.savedTheme(ctx, owner),
		lastSeen:    now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.ForContext(ctx).WithFields(log.Fields{
		"owner":    owner,
		"language": s.Language.Language(),
	}).Info("Sessão criada")

	return s, token, nil
}

func (m *Manager) savedTheme(ctx context.Context, owner string) domain.Theme {
	if m.preferences == nil {
		return domain.DefaultTheme
	}

	saved, found, err := m.preferences.GetPreference(ctx, owner, domain.PreferenceTheme)
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao carregar tema salvo")
		return domain.DefaultTheme
	}
	if !found || !domain.Theme(saved).IsValid() {
		return domain.DefaultTheme
	}

	return domain.Theme(saved)
}

// Get devolve a sessão e renova o último acesso
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	s.touch(m.now())
	return s, nil
}

// Resolve valida o token e devolve a sessão que ele identifica
func (m *Manager) Resolve(token string) (*Session, error) {
	claims, err := m.issuer.Validate(token)
	if err != nil {
		return nil, err
	}

	return m.Get(claims.Subject)
}

// Close encerra a sessão, cancelando a carga de KPIs em andamento
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.close()
	logrus.WithField("session_id", id).Info("Sessão encerrada")
	return nil
}

// Sweep encerra as sessões sem acesso há mais de idle e retorna quantas foram encerradas
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	expired := make([]*Session, 0)
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}

	if len(expired) > 0 {
		logrus.WithFields(logrus.Fields{
			"closed":    len(expired),
			"idle_ttl":  idle.String(),
			"remaining": m.Len(),
		}).Info("Sessões ociosas encerradas")
	}

	return len(expired)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll encerra todas as sessões, usado no desligamento do servidor
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
