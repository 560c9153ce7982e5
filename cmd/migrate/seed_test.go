package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeedRows(t *testing.T) {
	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC) // quarta-feira
	rows := buildSeedRows([]string{"abc123", "def456"}, now, 7)

	require.Len(t, rows, 14)

	first := rows[0]
	assert.Equal(t, "abc123", first.CampaignID)
	assert.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 8, first.Leads)
	assert.True(t, decimal.RequireFromString("148").Equal(first.Spend))
	assert.True(t, decimal.RequireFromString("1200").Equal(first.Revenue))

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Leads, 0)
		assert.False(t, row.Date.After(first.Date))
	}
}

func TestWeekdayBoost(t *testing.T) {
	assert.Equal(t, 2, weekdayBoost(time.Wednesday))
	assert.Equal(t, -3, weekdayBoost(time.Sunday))
	assert.Equal(t, 0, weekdayBoost(time.Monday))
}
