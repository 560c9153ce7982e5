package kpi

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/pubsub"
)

// DefaultWindows são as janelas (em dias) aceitas quando nenhuma outra é configurada
var DefaultWindows = []int{7, 14, 30}

// State é o estado observável do carregador.
// Depois de concluída uma requisição, exatamente um entre Error e Data está preenchido.
type State struct {
	Token      uint64                  `json:"token"`
	WindowDays int                     `json:"window_days"`
	Loading    bool                    `json:"loading"`
	Error      string                  `json:"error,omitempty"`
	Data       *domain.MetricsSnapshot `json:"data,omitempty"`
	Err        error                   `json:"-"`
}

// Settled indica se a requisição corrente terminou
func (s State) Settled() bool {
	return s.Token > 0 && !s.Loading
}

// Loader busca snapshots de métricas de forma assíncrona.
// Cada Load recebe um token crescente; apenas a resposta do maior token pode
// alterar o estado, e a requisição anterior em andamento é cancelada.
type Loader struct {
	fetcher MetricsFetcher
	windows map[int]bool
	timeout time.Duration

	mu      sync.Mutex
	seq     uint64
	state   State
	cancel  context.CancelFunc
	settled chan struct{}
	closed  bool
	updates *pubsub.Broadcaster[State]
}

type Option func(*Loader)

// WithSupportedWindows define as janelas aceitas por Load
func WithSupportedWindows(windows ...int) Option {
	return func(l *Loader) {
		l.windows = make(map[int]bool, len(windows))
		for _, w := range windows {
			l.windows[w] = true
		}
	}
}

// WithTimeout limita a duração de cada busca; zero desativa o limite
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) { l.timeout = timeout }
}

func NewLoader(fetcher MetricsFetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		settled: make(chan struct{}),
		updates: pubsub.NewBroadcaster[State](),
	}
	WithSupportedWindows(DefaultWindows...)(l)

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SupportedWindows retorna as janelas aceitas em ordem crescente
func (l *Loader) SupportedWindows() []int {
	windows := make([]int, 0, len(l.windows))
	for w := range l.windows {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	return windows
}

// Load inicia a busca do snapshot de windowDays e retorna o token da requisição.
// Nunca falha: erros de validação ou da fonte de dados viram estado.
// O contexto fornece apenas valores; o cancelamento é controlado pelo carregador.
func (l *Loader) Load(ctx context.Context, windowDays int) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0
	}

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	l.seq++
	token := l.seq

	logger := logrus.WithFields(logrus.Fields{
		"token":       token,
		"window_days": windowDays,
	})

	if !l.windows[windowDays] {
		logger.Warn("Janela de KPIs não suportada")
		loadErr := newLoadError(fmt.Errorf("janela %d: %w", windowDays, domain.ErrDataUnavailable), windowDays)
		l.commitLocked(State{Token: token, WindowDays: windowDays, Error: loadErr.Message, Err: loadErr})
		return token
	}

	if ctx == nil {
		ctx = context.Background()
	}
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if l.timeout > 0 {
		fetchCtx, cancel = withTimeout(fetchCtx, cancel, l.timeout)
	}
	l.cancel = cancel

	l.state = State{Token: token, WindowDays: windowDays, Loading: true}
	l.updates.Publish(l.state)

	logger.Debug("Iniciando carga de KPIs")
	go l.run(fetchCtx, cancel, token, windowDays)

	return token
}

func withTimeout(parent context.Context, cancelParent context.CancelFunc, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		cancel()
		cancelParent()
	}
}

func (l *Loader) run(ctx context.Context, cancel context.CancelFunc, token uint64, windowDays int) {
	defer cancel()

	startTime := time.Now()
	snapshot, err := l.fetch(ctx, windowDays)
	if err == nil && snapshot == nil {
		err = fmt.Errorf("janela %d: %w", windowDays, domain.ErrDataUnavailable)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	logger := logrus.WithFields(logrus.Fields{
		"token":       token,
		"window_days": windowDays,
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	if l.closed || token != l.seq {
		logger.Debug("Resposta obsoleta de KPIs descartada")
		return
	}
	l.cancel = nil

	if err != nil {
		loadErr := newLoadError(err, windowDays)
		logger.WithError(err).WithField("code", loadErr.Code).Warn("Erro ao carregar KPIs")
		l.commitLocked(State{Token: token, WindowDays: windowDays, Error: loadErr.Message, Err: loadErr})
		return
	}

	logger.WithField("kpi_total_leads", snapshot.TotalLeads).Debug("KPIs carregados com sucesso")
	l.commitLocked(State{Token: token, WindowDays: windowDays, Data: snapshot.Clone()})
}

// fetch isola o carregador de panics da fonte de dados
func (l *Loader) fetch(ctx context.Context, windowDays int) (snapshot *domain.MetricsSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snapshot = nil
			err = fmt.Errorf("%w: panic na fonte de dados: %v", ErrFetchFailed, r)
		}
	}()

	return l.fetcher.FetchMetrics(ctx, windowDays)
}

// commitLocked grava um estado final e acorda quem aguarda em Wait. Exige l.mu.
func (l *Loader) commitLocked(state State) {
	l.state = state
	close(l.settled)
	l.settled = make(chan struct{})
	l.updates.Publish(state)
}

// State retorna o estado atual
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := l.state
	state.Data = state.Data.Clone()
	return state
}

// Wait bloqueia até que a requisição token, ou uma mais nova, termine
func (l *Loader) Wait(ctx context.Context, token uint64) (State, error) {
	for {
		l.mu.Lock()
		state := l.state
		settled := l.settled
		closed := l.closed
		l.mu.Unlock()

		if state.Token >= token && !state.Loading {
			state.Data = state.Data.Clone()
			return state, nil
		}
		if closed {
			return state, ErrLoaderClosed
		}

		select {
		case <-settled:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Subscribe recebe cada transição de estado; o consumidor lento vê apenas o estado mais recente
func (l *Loader) Subscribe() (<-chan State, func()) {
	return l.updates.Subscribe()
}

// Close cancela a busca em andamento e libera os assinantes
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.state.Loading {
		l.state.Loading = false
		l.state.Err = ErrLoaderClosed
		l.state.Error = MessageFetchFailed
	}

	close(l.settled)
	l.updates.Close()
}
