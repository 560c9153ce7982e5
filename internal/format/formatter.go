// Package format converte valores numéricos e datas em textos de exibição
// de acordo com o idioma do painel.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// localeRules agrupa o que o CLDR do x/text não cobre: data curta e posição do símbolo
type localeRules struct {
	tag           language.Tag
	dateLayout    string
	symbolAfter   bool
	currencySpace bool
}

var rulesByLanguage = map[domain.LanguageCode]localeRules{
	domain.LanguagePortugueseBR: {tag: language.BrazilianPortuguese, dateLayout: "02/01/2006", currencySpace: true},
	domain.LanguageEnglishUS:    {tag: language.AmericanEnglish, dateLayout: "01/02/2006"},
	domain.LanguageSpanishES:    {tag: language.EuropeanSpanish, dateLayout: "02/01/2006", symbolAfter: true, currencySpace: true},
}

// DefaultCurrency é a moeda exibida quando nenhuma outra é configurada
var DefaultCurrency = currency.BRL

// Formatter formata valores para um idioma. É imutável e seguro para uso concorrente.
type Formatter struct {
	lang    domain.LanguageCode
	rules   localeRules
	printer *message.Printer
	unit    currency.Unit
	now     func() time.Time
}

type Option func(*Formatter)

// WithCurrency altera a moeda usada em Currency
func WithCurrency(unit currency.Unit) Option {
	return func(f *Formatter) { f.unit = unit }
}

// WithClock substitui a fonte de "hoje" usada por PeriodLabel
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// New cria um Formatter para lang. Idiomas sem regras usam as regras do idioma padrão.
func New(lang domain.LanguageCode, opts ...Option) *Formatter {
	rules, ok := rulesByLanguage[lang]
	if !ok {
		lang = domain.DefaultLanguage
		rules = rulesByLanguage[lang]
	}

	f := &Formatter{
		lang:    lang,
		rules:   rules,
		printer: message.NewPrinter(rules.tag),
		unit:    DefaultCurrency,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ParseCurrency converte um código ISO 4217 (ex.: BRL) em currency.Unit
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("format: moeda inválida %q: %w", code, err)
	}
	return unit, nil
}

// Language retorna o idioma efetivo do Formatter
func (f *Formatter) Language() domain.LanguageCode {
	return f.lang
}

// Currency formata value com duas casas decimais e o símbolo da moeda
func (f *Formatter) Currency(value float64) string {
	symbol := f.printer.Sprint(currency.Symbol(f.unit))
	amount := f.printer.Sprint(number.Decimal(math.Abs(value), number.Scale(2)))

	sep := ""
	if f.rules.currencySpace {
		sep = " "
	}

	var out string
	if f.rules.symbolAfter {
		out = amount + sep + symbol
	} else {
		out = symbol + sep + amount
	}

	if value < 0 {
		return "-" + out
	}
	return out
}

// Number formata value com separador de milhar, sem forçar casas decimais
func (f *Formatter) Number(value float64) string {
	return f.printer.Sprint(number.Decimal(value))
}

// Date formata t como data curta do idioma
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.rules.dateLayout)
}

// PeriodLabel retorna "{início} - {hoje}" para uma janela de days dias
func (f *Formatter) PeriodLabel(days int) string {
	start, end := utils.TrailingWindow(f.now(), days)
	return f.Date(start) + " - " + f.Date(end)
}

// Snapshot formata os campos numéricos de um MetricsSnapshot para exibição
func (f *Formatter) Snapshot(snapshot *domain.MetricsSnapshot) *FormattedSnapshot {
	if snapshot == nil {
		return nil
	}

	return &FormattedSnapshot{
		TotalLeads:      f.Number(float64(snapshot.TotalLeads)),
		CostPerLead:     f.Currency(snapshot.CostPerLead),
		ActiveCampaigns: f.Number(float64(snapshot.ActiveCampaigns)),
		Revenue:         f.Currency(snapshot.Revenue),
	}
}

// FormattedSnapshot contém os textos de exibição dos KPIs
type FormattedSnapshot struct {
	TotalLeads      string `json:"total_leads"`
	CostPerLead     string `json:"cost_per_lead"`
	ActiveCampaigns string `json:"active_campaigns"`
	Revenue         string `json:"revenue"`
}
