package kpi

import (
	"context"

	"github.com/vfg2006/agency-dashboard/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// MetricsFetcher é a fonte remota de métricas agregadas por janela
type MetricsFetcher interface {
	// FetchMetrics retorna um snapshot novo para a janela ou domain.ErrDataUnavailable
	FetchMetrics(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error)
}

// MetricsFetcherFunc adapta uma função comum a MetricsFetcher
type MetricsFetcherFunc func(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error)

func (f MetricsFetcherFunc) FetchMetrics(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
	return f(ctx, windowDays)
}
