package main

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

// Dias de histórico gerados, cobrindo a maior janela do painel
const seedDays = 30

type demoCampaign struct {
	Name        string
	DailyLeads  int
	CostPerLead decimal.Decimal
	TicketValue decimal.Decimal
}

var demoCampaigns = []demoCampaign{
	{Name: "Busca Marca", DailyLeads: 6, CostPerLead: decimal.RequireFromString("18.50"), TicketValue: decimal.RequireFromString("150")},
	{Name: "Remarketing", DailyLeads: 4, CostPerLead: decimal.RequireFromString("27.90"), TicketValue: decimal.RequireFromString("120")},
	{Name: "Prospecção Social", DailyLeads: 9, CostPerLead: decimal.RequireFromString("41.00"), TicketValue: decimal.RequireFromString("95")},
}

type seedRow struct {
	CampaignID string
	Date       time.Time
	Leads      int
	Spend      decimal.Decimal
	Revenue    decimal.Decimal
}

// buildSeedRows gera uma linha por campanha e dia, com variação semanal determinística
func buildSeedRows(campaignIDs []string, now time.Time, days int) []seedRow {
	_, end := utils.TrailingWindow(now, 0)
	rows := make([]seedRow, 0, len(campaignIDs)*days)

	for i, id := range campaignIDs {
		campaign := demoCampaigns[i%len(demoCampaigns)]

		for d := 0; d < days; d++ {
			date := end.AddDate(0, 0, -d)
			leads := campaign.DailyLeads + weekdayBoost(date.Weekday())
			if leads < 0 {
				leads = 0
			}

			count := decimal.NewFromInt(int64(leads))
			rows = append(rows, seedRow{
				CampaignID: id,
				Date:       date,
				Leads:      leads,
				Spend:      campaign.CostPerLead.Mul(count).Round(2),
				Revenue:    campaign.TicketValue.Mul(count).Round(2),
			})
		}
	}

	return rows
}

// weekdayBoost concentra mais leads no meio da semana
func weekdayBoost(day time.Weekday) int {
	switch day {
	case time.Tuesday, time.Wednesday, time.Thursday:
		return 2
	case time.Saturday, time.Sunday:
		return -3
	default:
		return 0
	}
}
