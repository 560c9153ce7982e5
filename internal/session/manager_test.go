package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository/mocks"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/internal/usecases/kpi"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/currency"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var staticFetcher = kpi.MetricsFetcherFunc(func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
	return &domain.MetricsSnapshot{WindowDays: windowDays, TotalLeads: 145, Revenue: 1234.5}, nil
})

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()

	store, err := i18n.NewStore()
	require.NoError(t, err)

	m := NewManager(store, staticFetcher, NewTokenIssuer("segredo", time.Hour), opts...)
	t.Cleanup(m.CloseAll)
	return m
}

func TestManager_CreateAndResolve(t *testing.T) {
	m := newTestManager(t)

	s, token, err := m.Create(context.Background(), " agencia-1 ")
	require.NoError(t, err)
	assert.Len(t, s.ID, 21)
	assert.Equal(t, "agencia-1", s.Owner)
	assert.Equal(t, domain.DefaultLanguage, s.Language.Language())
	assert.Equal(t, domain.DefaultTheme, s.Theme())
	assert.Equal(t, 1, m.Len())

	resolved, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, s, resolved)

	_, err = m.Resolve("invalido")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_CreateRequiresOwner(t *testing.T) {
	m := newTestManager(t)

	_, _, err := m.Create(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingOwner)
	assert.Equal(t, 0, m.Len())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newTestManager(t)

	first, _, err := m.Create(context.Background(), "agencia-1")
	require.NoError(t, err)
	second, _, err := m.Create(context.Background(), "agencia-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	require.NoError(t, first.Language.SetLanguage(context.Background(), domain.LanguageEnglishUS))
	assert.Equal(t, domain.DefaultLanguage, second.Language.Language())

	token := first.KPI.Load(context.Background(), 7)
	state, err := first.KPI.Wait(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 145, state.Data.TotalLeads)
	assert.Equal(t, uint64(0), second.KPI.State().Token)
}

func TestManager_Close(t *testing.T) {
	m := newTestManager(t)

	s, token, err := m.Create(context.Background(), "agencia-1")
	require.NoError(t, err)

	require.NoError(t, m.Close(s.ID))
	assert.ErrorIs(t, m.Close(s.ID), ErrSessionNotFound)

	_, err = m.Resolve(token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Loader encerrado não aceita novas cargas
	assert.Equal(t, uint64(0), s.KPI.Load(context.Background(), 7))
}

func TestManager_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, WithClock(clock.Now))

	idle, _, err := m.Create(context.Background(), "agencia-1")
	require.NoError(t, err)
	active, _, err := m.Create(context.Background(), "agencia-2")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = m.Get(active.ID)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep(30*time.Minute))

	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(active.ID)
	assert.NoError(t, err)

	assert.Equal(t, 0, m.Sweep(30*time.Minute))
}

func TestManager_RestoresPreferences(t *testing.T) {
	prefs := repository.NewMemoryPreferenceRepository()
	m := newTestManager(t, WithPreferences(prefs))

	first, _, err := m.Create(context.Background(), "cliente-7")
	require.NoError(t, err)
	require.NoError(t, first.Language.SetLanguage(context.Background(), domain.LanguageSpanishES))
	require.NoError(t, first.SetTheme(context.Background(), domain.ThemeDark))

	second, _, err := m.Create(context.Background(), "cliente-7")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageSpanishES, second.Language.Language())
	assert.Equal(t, domain.ThemeDark, second.Theme())
}

func TestManager_DefaultLanguageAndCurrency(t *testing.T) {
	m := newTestManager(t, WithDefaultLanguage(domain.LanguageEnglishUS), WithDisplayCurrency(currency.USD))

	s, _, err := m.Create(context.Background(), "agencia-1")
	require.NoError(t, err)

	f := s.Formatter()
	assert.Equal(t, domain.LanguageEnglishUS, f.Language())
	assert.Contains(t, f.Currency(10), "10.00")
	assert.NotContains(t, f.Currency(10), "R$")
}

func TestSession_SetTheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	prefs := mocks.NewMockPreferenceRepository(ctrl)
	prefs.EXPECT().GetPreference(gomock.Any(), "agencia-1", domain.PreferenceLanguage).Return("", false, nil)
	prefs.EXPECT().GetPreference(gomock.Any(), "agencia-1", domain.PreferenceTheme).Return("roxo", true, nil)
	prefs.EXPECT().
		SavePreference(gomock.Any(), "agencia-1", domain.PreferenceTheme, "dark").
		Return(errors.New("db offline"))

	m := newTestManager(t, WithPreferences(prefs))

	s, _, err := m.Create(context.Background(), "agencia-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTheme, s.Theme())

	assert.ErrorIs(t, s.SetTheme(context.Background(), "roxo"), ErrInvalidTheme)
	assert.Equal(t, domain.ThemeLight, s.Theme())

	require.NoError(t, s.SetTheme(context.Background(), domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, s.Theme())
}
