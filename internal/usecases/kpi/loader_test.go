package kpi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/usecases/kpi/mocks"
	"go.uber.org/mock/gomock"
)

func snapshotFor(window int) *domain.MetricsSnapshot {
	return &domain.MetricsSnapshot{
		WindowDays:      window,
		TotalLeads:      window * 10,
		CostPerLead:     30,
		ActiveCampaigns: 5,
		Revenue:         float64(window) * 1000,
		WeeklyTrend:     []domain.TrendPoint{{Label: "Seg", Leads: window}},
	}
}

func waitState(t *testing.T, l *Loader, token uint64) State {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	state, err := l.Wait(ctx, token)
	require.NoError(t, err)
	return state
}

// gatedFetcher só responde quando o teste libera a janela correspondente.
// Ignora o cancelamento do contexto para simular um backend que responde tarde.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[int]chan struct{}
	started chan int
}

func newGatedFetcher(windows ...int) *gatedFetcher {
	f := &gatedFetcher{gates: make(map[int]chan struct{}), started: make(chan int, 10)}
	for _, w := range windows {
		f.gates[w] = make(chan struct{})
	}
	return f
}

func (f *gatedFetcher) FetchMetrics(_ context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
	f.mu.Lock()
	gate := f.gates[windowDays]
	f.mu.Unlock()

	f.started <- windowDays
	<-gate
	return snapshotFor(windowDays), nil
}

func (f *gatedFetcher) release(window int) {
	close(f.gates[window])
}

func (f *gatedFetcher) awaitStart(t *testing.T, window int) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, window, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("busca da janela %d não iniciou", window)
	}
}

func TestLoader_LoadSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockMetricsFetcher(ctrl)
	fetcher.EXPECT().
		FetchMetrics(gomock.Any(), 7).
		Return(snapshotFor(7), nil)

	loader := NewLoader(fetcher)
	defer loader.Close()

	token := loader.Load(context.Background(), 7)
	assert.Equal(t, uint64(1), token)

	state := waitState(t, loader, token)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.NoError(t, state.Err)
	require.NotNil(t, state.Data)
	assert.Equal(t, 70, state.Data.TotalLeads)
	assert.Equal(t, 7, state.WindowDays)
	assert.True(t, state.Settled())
}

func TestLoader_UnsupportedWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Nenhuma chamada ao fetcher é esperada
	fetcher := mocks.NewMockMetricsFetcher(ctrl)

	loader := NewLoader(fetcher)
	defer loader.Close()

	token := loader.Load(context.Background(), 999)
	state := waitState(t, loader, token)

	assert.False(t, state.Loading)
	assert.Nil(t, state.Data)
	assert.Equal(t, MessageDataUnavailable, state.Error)
	assert.True(t, IsNotFound(state.Err))

	var loadErr *LoadError
	require.ErrorAs(t, state.Err, &loadErr)
	assert.Equal(t, CodeNotFound, loadErr.Code)
	assert.Equal(t, 999, loadErr.WindowDays)
}

func TestLoader_FetchErrors(t *testing.T) {
	tests := []struct {
		name        string
		fetch       MetricsFetcherFunc
		wantMessage string
		wantCode    string
	}{
		{
			name: "dados indisponíveis",
			fetch: func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
				return nil, domain.ErrDataUnavailable
			},
			wantMessage: MessageDataUnavailable,
			wantCode:    CodeNotFound,
		},
		{
			name: "falha de transporte",
			fetch: func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
				return nil, errors.New("connection refused")
			},
			wantMessage: MessageFetchFailed,
			wantCode:    CodeFetchFailed,
		},
		{
			name: "snapshot nulo sem erro",
			fetch: func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
				return nil, nil
			},
			wantMessage: MessageDataUnavailable,
			wantCode:    CodeNotFound,
		},
		{
			name: "panic na fonte de dados",
			fetch: func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
				panic("boom")
			},
			wantMessage: MessageFetchFailed,
			wantCode:    CodeFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(tt.fetch)
			defer loader.Close()

			state := waitState(t, loader, loader.Load(context.Background(), 14))

			assert.False(t, state.Loading)
			assert.Nil(t, state.Data)
			assert.Equal(t, tt.wantMessage, state.Error)

			var loadErr *LoadError
			require.ErrorAs(t, state.Err, &loadErr)
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestLoader_Timeout(t *testing.T) {
	fetcher := MetricsFetcherFunc(func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	loader := NewLoader(fetcher, WithTimeout(20*time.Millisecond))
	defer loader.Close()

	state := waitState(t, loader, loader.Load(context.Background(), 30))

	assert.Equal(t, MessageTimeout, state.Error)
	assert.Nil(t, state.Data)
	assert.ErrorIs(t, state.Err, ErrTimeout)
}

func TestLoader_StaleResponseIsDiscarded(t *testing.T) {
	tests := []struct {
		name         string
		releaseOrder []int
	}{
		{name: "resposta antiga chega depois", releaseOrder: []int{30, 7}},
		{name: "resposta antiga chega antes", releaseOrder: []int{7, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newGatedFetcher(7, 30)
			loader := NewLoader(fetcher)
			defer loader.Close()

			first := loader.Load(context.Background(), 7)
			fetcher.awaitStart(t, 7)

			second := loader.Load(context.Background(), 30)
			fetcher.awaitStart(t, 30)
			assert.Greater(t, second, first)

			for _, w := range tt.releaseOrder {
				fetcher.release(w)
			}

			// Aguardar pelo token antigo devolve o resultado do mais novo
			state := waitState(t, loader, first)
			require.NotNil(t, state.Data)
			assert.Equal(t, 30, state.WindowDays)
			assert.Equal(t, 30, state.Data.WindowDays)
			assert.Equal(t, second, state.Token)

			// A resposta da janela 7 não pode sobrescrever o estado depois
			time.Sleep(20 * time.Millisecond)
			final := loader.State()
			assert.Equal(t, 30, final.Data.WindowDays)
			assert.Empty(t, final.Error)
		})
	}
}

func TestLoader_NewLoadCancelsPrevious(t *testing.T) {
	cancelled := make(chan error, 1)
	fetcher := MetricsFetcherFunc(func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
		if windowDays == 7 {
			<-ctx.Done()
			cancelled <- ctx.Err()
			return nil, ctx.Err()
		}
		return snapshotFor(windowDays), nil
	})

	loader := NewLoader(fetcher)
	defer loader.Close()

	loader.Load(context.Background(), 7)
	token := loader.Load(context.Background(), 14)

	select {
	case err := <-cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("requisição anterior não foi cancelada")
	}

	state := waitState(t, loader, token)
	require.NotNil(t, state.Data)
	assert.Equal(t, 14, state.Data.WindowDays)
}

func TestLoader_RequestContextCancellationDoesNotAbortLoad(t *testing.T) {
	fetcher := newGatedFetcher(7)
	loader := NewLoader(fetcher)
	defer loader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	token := loader.Load(ctx, 7)
	fetcher.awaitStart(t, 7)
	cancel()
	fetcher.release(7)

	state := waitState(t, loader, token)
	require.NotNil(t, state.Data)
	assert.Equal(t, 7, state.Data.WindowDays)
}

func TestLoader_SubscribeObservesTransitions(t *testing.T) {
	fetcher := newGatedFetcher(7)
	loader := NewLoader(fetcher)
	defer loader.Close()

	updates, unsubscribe := loader.Subscribe()
	defer unsubscribe()

	loader.Load(context.Background(), 7)

	loading := <-updates
	assert.True(t, loading.Loading)
	assert.Nil(t, loading.Data)
	assert.Empty(t, loading.Error)

	fetcher.awaitStart(t, 7)
	fetcher.release(7)

	settled := <-updates
	assert.False(t, settled.Loading)
	require.NotNil(t, settled.Data)
}

func TestLoader_StateReturnsCopy(t *testing.T) {
	loader := NewLoader(MetricsFetcherFunc(func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
		return snapshotFor(windowDays), nil
	}))
	defer loader.Close()

	waitState(t, loader, loader.Load(context.Background(), 7))

	first := loader.State()
	first.Data.WeeklyTrend[0].Leads = -1
	first.Data.TotalLeads = 0

	second := loader.State()
	assert.Equal(t, 7, second.Data.WeeklyTrend[0].Leads)
	assert.Equal(t, 70, second.Data.TotalLeads)
}

func TestLoader_Close(t *testing.T) {
	fetcher := newGatedFetcher(7)
	loader := NewLoader(fetcher)

	token := loader.Load(context.Background(), 7)
	fetcher.awaitStart(t, 7)

	loader.Close()
	loader.Close()
	fetcher.release(7)

	state, err := loader.Wait(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Data)
	assert.ErrorIs(t, state.Err, ErrLoaderClosed)

	assert.Equal(t, uint64(0), loader.Load(context.Background(), 7))
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	fetcher := newGatedFetcher(7)
	loader := NewLoader(fetcher)
	defer func() {
		fetcher.release(7)
		loader.Close()
	}()

	token := loader.Load(context.Background(), 7)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	state, err := loader.Wait(ctx, token)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, state.Loading)
}

func TestLoader_SupportedWindows(t *testing.T) {
	loader := NewLoader(nil, WithSupportedWindows(30, 7))
	defer loader.Close()

	assert.Equal(t, []int{7, 30}, loader.SupportedWindows())
	assert.Equal(t, []int{7, 14, 30}, NewLoader(nil).SupportedWindows())
}
