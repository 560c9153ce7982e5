package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/pkg/utils"
)

// Tamanho dos IDs de campanha gerados no seed
const campaignIDLength = 6

var schema = []string{
	`CREATE TABLE IF NOT EXISTS campaign_daily_metrics (
		campaign_id VARCHAR(32) NOT NULL,
		date DATE NOT NULL,
		leads INTEGER NOT NULL DEFAULT 0,
		spend NUMERIC(14, 2) NOT NULL DEFAULT 0,
		revenue NUMERIC(14, 2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (campaign_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_campaign_daily_metrics_date ON campaign_daily_metrics (date)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		owner VARCHAR(128) NOT NULL,
		key VARCHAR(64) NOT NULL,
		value VARCHAR(256) NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		PRIMARY KEY (owner, key)
	)`,
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := createSchema(ctx, tx); err != nil {
			return err
		}
		return seedMetrics(ctx, tx, time.Now())
	})
	if err != nil {
		logrus.WithError(err).Fatal("Migração falhou, transação revertida")
	}

	logrus.WithField("duration", time.Since(startTime).String()).Info("Migração concluída com sucesso")
}

func createSchema(ctx context.Context, tx *sql.Tx) error {
	for _, statement := range schema {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	logrus.WithField("statements", len(schema)).Info("Schema criado")
	return nil
}

func seedMetrics(ctx context.Context, tx *sql.Tx, now time.Time) error {
	campaignIDs := make([]string, 0, len(demoCampaigns))
	for _, campaign := range demoCampaigns {
		id, err := utils.GenerateID(campaignIDLength)
		if err != nil {
			return err
		}
		campaignIDs = append(campaignIDs, id)
		logrus.WithFields(logrus.Fields{"campaign_id": id, "name": campaign.Name}).Debug("Campanha de demonstração criada")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO campaign_daily_metrics (campaign_id, date, leads, spend, revenue)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (campaign_id, date) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	rows := buildSeedRows(campaignIDs, now, seedDays)
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.CampaignID, row.Date.Format(time.DateOnly), row.Leads, row.Spend, row.Revenue); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"campaigns": len(campaignIDs),
		"rows":      len(rows),
	}).Info("Métricas de demonstração inseridas")

	return nil
}
