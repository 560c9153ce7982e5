package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"golang.org/x/text/currency"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 14, 18, 45, 0, 0, time.UTC)
}

func TestFormatter_Currency(t *testing.T) {
	tests := []struct {
		name  string
		lang  domain.LanguageCode
		value float64
		want  string
	}{
		{name: "pt-BR com milhar", lang: domain.LanguagePortugueseBR, value: 1234.5, want: "R$ 1.234,50"},
		{name: "pt-BR custo por lead", lang: domain.LanguagePortugueseBR, value: 32.5, want: "R$ 32,50"},
		{name: "en-US com milhar", lang: domain.LanguageEnglishUS, value: 1234.5, want: "R$1,234.50"},
		{name: "pt-BR zero", lang: domain.LanguagePortugueseBR, value: 0, want: "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.lang).Currency(tt.value))
		})
	}
}

func TestFormatter_Number(t *testing.T) {
	assert.Equal(t, "1.234.567", New(domain.LanguagePortugueseBR).Number(1234567))
	assert.Equal(t, "1,234,567", New(domain.LanguageEnglishUS).Number(1234567))
	assert.Equal(t, "145", New(domain.LanguagePortugueseBR).Number(145))
}

func TestFormatter_IsDeterministic(t *testing.T) {
	for _, lang := range domain.AvailableLanguages {
		f := New(lang)
		for _, value := range []float64{0, 32.5, 1234.56, 98765.4321} {
			assert.Equal(t, f.Currency(value), New(lang).Currency(value), "moeda %s %v", lang, value)
			assert.Equal(t, f.Number(value), f.Number(value), "número %s %v", lang, value)
		}
	}
}

func TestFormatter_Date(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "09/03/2026", New(domain.LanguagePortugueseBR).Date(day))
	assert.Equal(t, "03/09/2026", New(domain.LanguageEnglishUS).Date(day))
	assert.Equal(t, "09/03/2026", New(domain.LanguageSpanishES).Date(day))
}

func TestFormatter_PeriodLabel(t *testing.T) {
	f := New(domain.LanguagePortugueseBR, WithClock(fixedClock))

	assert.Equal(t, "07/10/2026 - 14/10/2026", f.PeriodLabel(7))
	assert.Equal(t, "14/10/2026 - 14/10/2026", f.PeriodLabel(0))
	assert.Equal(t, "14/09/2026 - 14/10/2026", f.PeriodLabel(30))
}

func TestFormatter_UnknownLanguageUsesDefaultRules(t *testing.T) {
	f := New(domain.LanguageCode("fr-FR"))

	assert.Equal(t, domain.DefaultLanguage, f.Language())
	assert.Equal(t, New(domain.DefaultLanguage).Currency(10), f.Currency(10))
}

func TestFormatter_Snapshot(t *testing.T) {
	f := New(domain.LanguagePortugueseBR)

	assert.Nil(t, f.Snapshot(nil))

	got := f.Snapshot(&domain.MetricsSnapshot{
		TotalLeads:      1450,
		CostPerLead:     32.5,
		ActiveCampaigns: 8,
		Revenue:         18500,
	})
	require.NotNil(t, got)
	assert.Equal(t, "1.450", got.TotalLeads)
	assert.Equal(t, "R$ 32,50", got.CostPerLead)
	assert.Equal(t, "8", got.ActiveCampaigns)
	assert.Equal(t, "R$ 18.500,00", got.Revenue)
}

func TestParseCurrency(t *testing.T) {
	unit, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, currency.USD, unit)

	_, err = ParseCurrency("XYZW")
	assert.Error(t, err)
}
