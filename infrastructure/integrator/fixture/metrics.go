package fixture

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

// snapshots são os dados de demonstração usados enquanto não há backend real
var snapshots = map[int]domain.MetricsSnapshot{
	7: {
		TotalLeads:      145,
		CostPerLead:     32.5,
		ActiveCampaigns: 8,
		Revenue:         18500,
		WeeklyTrend:     trend(18, 22, 25, 20, 28, 17, 15),
	},
	14: {
		TotalLeads:      298,
		CostPerLead:     31.2,
		ActiveCampaigns: 10,
		Revenue:         39200,
		WeeklyTrend:     trend(38, 45, 49, 42, 55, 37, 32),
	},
	30: {
		TotalLeads:      612,
		CostPerLead:     29.8,
		ActiveCampaigns: 12,
		Revenue:         89400,
		WeeklyTrend:     trend(80, 95, 102, 88, 115, 70, 62),
	},
}

func trend(leads ...int) []domain.TrendPoint {
	points := make([]domain.TrendPoint, len(leads))
	for i, l := range leads {
		points[i] = domain.TrendPoint{Label: domain.WeekdayLabels[i], Leads: l}
	}
	return points
}

// MetricsFixture devolve snapshots em memória simulando a latência de uma chamada remota
type MetricsFixture struct {
	latency time.Duration
	now     func() time.Time
}

func NewMetricsFixture(latency time.Duration) *MetricsFixture {
	return &MetricsFixture{
		latency: latency,
		now:     time.Now,
	}
}

// Windows retorna as janelas que possuem snapshot
func (f *MetricsFixture) Windows() []int {
	return []int{7, 14, 30}
}

func (f *MetricsFixture) FetchMetrics(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
	if f.latency > 0 {
		timer := time.NewTimer(f.latency)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	snapshot, ok := snapshots[windowDays]
	if !ok {
		logrus.WithField("window_days", windowDays).Debug("Fixture sem snapshot para a janela")
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "fixture: janela %d", windowDays)
	}

	// Cada chamada recebe uma cópia nova, nunca o valor compartilhado do mapa
	out := snapshot.Clone()
	out.WindowDays = windowDays
	out.GeneratedAt = f.now()

	return out, nil
}
