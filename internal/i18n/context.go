package i18n

import (
	"context"
	"sync"

	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/log"
	"github.com/vfg2006/agency-dashboard/pkg/pubsub"
)

// LanguageContext guarda o idioma corrente de uma sessão e traduz com ele
type LanguageContext struct {
	store       *Store
	owner       string
	preferences repository.PreferenceRepository

	mu       sync.RWMutex
	language domain.LanguageCode
	updates  *pubsub.Broadcaster[domain.LanguageCode]
}

type ContextOption func(*LanguageContext)

// WithPreferences persiste o idioma escolhido para owner
func WithPreferences(owner string, preferences repository.PreferenceRepository) ContextOption {
	return func(lc *LanguageContext) {
		lc.owner = owner
		lc.preferences = preferences
	}
}

// WithInitialLanguage define o idioma usado quando não há preferência salva
func WithInitialLanguage(code domain.LanguageCode) ContextOption {
	return func(lc *LanguageContext) {
		if code.IsSupported() {
			lc.language = code
		}
	}
}

// NewLanguageContext cria o contexto de idioma. Uma preferência salva prevalece
// sobre o idioma inicial; valores salvos inválidos são ignorados.
func NewLanguageContext(ctx context.Context, store *Store, opts ...ContextOption) *LanguageContext {
	lc := &LanguageContext{
		store:    store,
		language: domain.DefaultLanguage,
		updates:  pubsub.NewBroadcaster[domain.LanguageCode](),
	}

	for _, opt := range opts {
		opt(lc)
	}

	if lc.preferences == nil {
		return lc
	}

	logger := log.ForContext(ctx).WithField("owner", lc.owner)

	saved, found, err := lc.preferences.GetPreference(ctx, lc.owner, domain.PreferenceLanguage)
	switch {
	case err != nil:
		logger.WithError(err).Warn("Erro ao carregar idioma salvo")
	case !found:
	case !domain.LanguageCode(saved).IsSupported():
		logger.WithField("language", saved).Warn("Idioma salvo inválido ignorado")
	default:
		lc.language = domain.LanguageCode(saved)
	}

	return lc
}

func (lc *LanguageContext) Language() domain.LanguageCode {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.language
}

// SetLanguage troca o idioma corrente. Códigos fora de domain.AvailableLanguages
// retornam ErrUnsupportedLanguage e não alteram o estado.
func (lc *LanguageContext) SetLanguage(ctx context.Context, code domain.LanguageCode) error {
	if !code.IsSupported() {
		return ErrUnsupportedLanguage
	}

	lc.mu.Lock()
	lc.language = code
	lc.updates.Publish(code)
	lc.mu.Unlock()

	logger := log.ForContext(ctx).WithField("language", code)
	logger.Debug("Idioma alterado")

	if lc.preferences == nil {
		return nil
	}

	if err := lc.preferences.SavePreference(ctx, lc.owner, domain.PreferenceLanguage, code.String()); err != nil {
		logger.WithError(err).Warn("Erro ao salvar preferência de idioma")
	}

	return nil
}

// T traduz key no idioma corrente
func (lc *LanguageContext) T(key string) string {
	return lc.store.Translate(key, lc.Language())
}

// Subscribe recebe cada troca de idioma; o consumidor lento vê apenas o valor mais recente
func (lc *LanguageContext) Subscribe() (<-chan domain.LanguageCode, func()) {
	return lc.updates.Subscribe()
}

func (lc *LanguageContext) Close() {
	lc.updates.Close()
}
