package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/internal/domain"
)

func TestBuildMetricsTotalsQuery(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	query, args, err := buildMetricsTotalsQuery(start, end)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM campaign_daily_metrics cdm")
	assert.Contains(t, query, "COUNT(DISTINCT cdm.campaign_id)")
	assert.Contains(t, query, "cdm.date > $1")
	assert.Contains(t, query, "cdm.date <= $2")
	assert.Equal(t, []interface{}{"2026-03-01", "2026-03-08"}, args)
}

func TestBuildWeeklyTrendQuery(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	query, args, err := buildWeeklyTrendQuery(start, end)
	require.NoError(t, err)

	assert.Contains(t, query, "EXTRACT(ISODOW FROM cdm.date)::int AS weekday")
	assert.Contains(t, query, "GROUP BY weekday")
	assert.Contains(t, query, "ORDER BY weekday ASC")
	assert.Len(t, args, 2)
}

func TestBuildSnapshot(t *testing.T) {
	totals := &metricsTotals{
		Rows:            21,
		Leads:           145,
		Spend:           decimal.RequireFromString("4712.50"),
		Revenue:         decimal.RequireFromString("18500.004"),
		ActiveCampaigns: 8,
	}
	leads := map[int]int{1: 18, 2: 22, 3: 25, 5: 30, 7: 9}

	snapshot := buildSnapshot(totals, leads)

	assert.Equal(t, 145, snapshot.TotalLeads)
	assert.Equal(t, 32.5, snapshot.CostPerLead)
	assert.Equal(t, 8, snapshot.ActiveCampaigns)
	assert.Equal(t, 18500.0, snapshot.Revenue)

	require.Len(t, snapshot.WeeklyTrend, 7)
	assert.Equal(t, domain.TrendPoint{Label: "Seg", Leads: 18}, snapshot.WeeklyTrend[0])
	assert.Equal(t, domain.TrendPoint{Label: "Qui", Leads: 0}, snapshot.WeeklyTrend[3])
	assert.Equal(t, domain.TrendPoint{Label: "Dom", Leads: 9}, snapshot.WeeklyTrend[6])
}

func TestBuildSnapshot_NoLeads(t *testing.T) {
	snapshot := buildSnapshot(&metricsTotals{Rows: 3, Spend: decimal.NewFromInt(100)}, map[int]int{})

	assert.Equal(t, 0.0, snapshot.CostPerLead)
	assert.Len(t, snapshot.WeeklyTrend, 7)
}

func TestBuildPreferenceQueries(t *testing.T) {
	query, args, err := buildGetPreferenceQuery("agencia-1", domain.PreferenceTheme)
	require.NoError(t, err)
	assert.Contains(t, query, "FROM user_preferences up")
	assert.ElementsMatch(t, []interface{}{"agencia-1", "theme"}, args)

	query, args, err = buildSavePreferenceQuery("agencia-1", domain.PreferenceLanguage, "en-US")
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO user_preferences (owner,key,value) VALUES ($1,$2,$3)")
	assert.Contains(t, query, "ON CONFLICT (owner, key) DO UPDATE")
	assert.Equal(t, []interface{}{"agencia-1", "language", "en-US"}, args)
}
