package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// metricsResponse é o contrato JSON do backend de métricas
type metricsResponse struct {
	TotalLeads      int     `json:"total_leads"`
	CostPerLead     float64 `json:"cost_per_lead"`
	ActiveCampaigns int     `json:"active_campaigns"`
	Revenue         float64 `json:"revenue"`
	WeeklyTrend     []struct {
		Label string `json:"label"`
		Leads int    `json:"leads"`
	} `json:"weekly_trend"`
}

// MetricsClient busca snapshots de métricas em um backend HTTP
type MetricsClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewMetricsClient(cfg config.Backend) *MetricsClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &MetricsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.URL,
		token:      cfg.Token,
	}
}

func (c *MetricsClient) FetchMetrics(ctx context.Context, windowDays int) (*domain.MetricsSnapshot, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "backend: erro ao analisar a URL base")
	}
	endpoint.Path = path.Join(endpoint.Path, "/metrics")

	query := endpoint.Query()
	query.Set("window", strconv.Itoa(windowDays))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "backend: erro ao criar a requisição")
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "backend: erro ao executar a requisição")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(domain.ErrDataUnavailable, "backend: janela %d", windowDays)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logrus.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"window_days": windowDays,
			"body":        string(body),
		}).Warn("Backend de métricas respondeu com erro")
		return nil, fmt.Errorf("backend: requisição falhou com status: %s", resp.Status)
	}

	var payload metricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "backend: erro ao decodificar a resposta")
	}

	snapshot := &domain.MetricsSnapshot{
		WindowDays:      windowDays,
		TotalLeads:      payload.TotalLeads,
		CostPerLead:     utils.RoundWithTwoDecimalPlace(payload.CostPerLead),
		ActiveCampaigns: payload.ActiveCampaigns,
		Revenue:         payload.Revenue,
		WeeklyTrend:     make([]domain.TrendPoint, 0, len(payload.WeeklyTrend)),
		GeneratedAt:     time.Now(),
	}
	for _, p := range payload.WeeklyTrend {
		snapshot.WeeklyTrend = append(snapshot.WeeklyTrend, domain.TrendPoint{Label: p.Label, Leads: p.Leads})
	}

	return snapshot, nil
}
