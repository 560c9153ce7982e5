package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

const (
	campaignMetricsTable = "campaign_daily_metrics cdm"
	dateLayout           = "2006-01-02"
)

// MetricsRepository agrega as métricas diárias de campanha em snapshots por janela
type MetricsRepository interface {
	FetchMetrics(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error)
}

type metricsRepository struct {
	conn postgres.Queryer
	now  func() time.Time
}

func NewMetricsRepository(conn postgres.Queryer) MetricsRepository {
	return &metricsRepository{
		conn: conn,
		now:  time.Now,
	}
}

// metricsTotals é a linha agregada da janela
type metricsTotals struct {
	Rows            int
	Leads           int
	Spend           decimal.Decimal
	Revenue         decimal.Decimal
	ActiveCampaigns int
}

func windowFilter(start, end time.Time) squirrel.And {
	return squirrel.And{
		squirrel.Gt{"cdm.date": start.Format(dateLayout)},
		squirrel.LtOrEq{"cdm.date": end.Format(dateLayout)},
	}
}

func buildMetricsTotalsQuery(start, end time.Time) (string, []interface{}, error) {
	return squirrel.
		Select(
			"COUNT(*)",
			"COALESCE(SUM(cdm.leads), 0)",
			"COALESCE(SUM(cdm.spend), 0)",
			"COALESCE(SUM(cdm.revenue), 0)",
			"COUNT(DISTINCT cdm.campaign_id)",
		).
		From(campaignMetricsTable).
		Where(windowFilter(start, end)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildWeeklyTrendQuery(start, end time.Time) (string, []interface{}, error) {
	return squirrel.
		Select("EXTRACT(ISODOW FROM cdm.date)::int AS weekday", "COALESCE(SUM(cdm.leads), 0)").
		From(campaignMetricsTable).
		Where(windowFilter(start, end)).
		GroupBy("weekday").
		OrderBy("weekday ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *metricsRepository) FetchMetrics(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
	start, end := utils.TrailingWindow(r.now(), windowDays)

	totals, err := r.fetchTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if totals.Rows == 0 {
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "postgres: janela %d sem métricas", windowDays)
	}

	leadsByWeekday, err := r.fetchWeeklyTrend(ctx, start, end)
	if err != nil {
		return nil, err
	}

	snapshot := buildSnapshot(totals, leadsByWeekday)
	snapshot.WindowDays = windowDays
	snapshot.GeneratedAt = r.now()

	return snapshot, nil
}

func (r *metricsRepository) fetchTotals(ctx context.Context, start, end time.Time) (*metricsTotals, error) {
	query, args, err := buildMetricsTotalsQuery(start, end)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	totals := &metricsTotals{}
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&totals.Rows,
		&totals.Leads,
		&totals.Spend,
		&totals.Revenue,
		&totals.ActiveCampaigns,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar totais de métricas: %w", err)
	}

	return totals, nil
}

// fetchWeeklyTrend retorna os leads por dia ISO da semana (1 = segunda)
func (r *metricsRepository) fetchWeeklyTrend(ctx context.Context, start, end time.Time) (map[int]int, error) {
	query, args, err := buildWeeklyTrendQuery(start, end)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	leadsByWeekday := make(map[int]int, len(domain.WeekdayLabels))
	for rows.Next() {
		var weekday, leads int
		if err := rows.Scan(&weekday, &leads); err != nil {
			return nil, fmt.Errorf("erro ao escanear tendência semanal: %w", err)
		}
		leadsByWeekday[weekday] = leads
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return leadsByWeekday, nil
}

// buildSnapshot monta o snapshot com os sete dias da semana, de segunda a domingo
func buildSnapshot(totals *metricsTotals, leadsByWeekday map[int]int) *domain.MetricsSnapshot {
	costPerLead := decimal.Zero
	if totals.Leads > 0 {
		costPerLead = totals.Spend.Div(decimal.NewFromInt(int64(totals.Leads))).Round(2)
	}

	trend := make([]domain.TrendPoint, 0, len(domain.WeekdayLabels))
	for i, label := range domain.WeekdayLabels {
		trend = append(trend, domain.TrendPoint{Label: label, Leads: leadsByWeekday[i+1]})
	}

	return &domain.MetricsSnapshot{
		TotalLeads:      totals.Leads,
		CostPerLead:     costPerLead.InexactFloat64(),
		ActiveCampaigns: totals.ActiveCampaigns,
		Revenue:         totals.Revenue.Round(2).InexactFloat64(),
		WeeklyTrend:     trend,
	}
}
