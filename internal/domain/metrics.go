package domain

import "time"

// TrendPoint representa um ponto da série de tendência semanal
type TrendPoint struct {
	Label string `json:"label"`
	Leads int    `json:"leads"`
}

// MetricsSnapshot representa os resultados agregados de um período
type MetricsSnapshot struct {
	WindowDays      int          `json:"window_days"`
	TotalLeads      int          `json:"total_leads"`
	CostPerLead     float64      `json:"cost_per_lead"`
	ActiveCampaigns int          `json:"active_campaigns"`
	Revenue         float64      `json:"revenue"`
	WeeklyTrend     []TrendPoint `json:"weekly_trend"`
	GeneratedAt     time.Time    `json:"generated_at"`
}

// Clone retorna uma cópia independente do snapshot, incluindo a série de tendência
func (m *MetricsSnapshot) Clone() *MetricsSnapshot {
	if m == nil {
		return nil
	}

	clone := *m
	if m.WeeklyTrend != nil {
		clone.WeeklyTrend = make([]TrendPoint, len(m.WeeklyTrend))
		copy(clone.WeeklyTrend, m.WeeklyTrend)
	}

	return &clone
}

// WeekdayLabels são os rótulos da série semanal, de segunda a domingo
var WeekdayLabels = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}
