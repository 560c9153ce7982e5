package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/backend"
	"github.com/vfg2006/agency-dashboard/infrastructure/integrator/fixture"
	"github.com/vfg2006/agency-dashboard/infrastructure/repository"
	"github.com/vfg2006/agency-dashboard/internal/api"
	"github.com/vfg2006/agency-dashboard/internal/config"
	"github.com/vfg2006/agency-dashboard/internal/domain"
	"github.com/vfg2006/agency-dashboard/internal/format"
	"github.com/vfg2006/agency-dashboard/internal/i18n"
	"github.com/vfg2006/agency-dashboard/internal/scheduler"
	"github.com/vfg2006/agency-dashboard/internal/session"
	"github.com/vfg2006/agency-dashboard/internal/usecases/kpi"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pgConn *postgres.Connection
	if cfg.UsesDatabase() {
		pgConn = pgconn(ctx, cfg.Database)
		defer pgConn.Close()
	}

	fetcher := metricsFetcher(cfg, pgConn)
	preferences := preferenceRepository(cfg, pgConn)

	store, err := i18n.NewStore()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar os dicionários de tradução")
	}

	displayCurrency, err := format.ParseCurrency(cfg.I18n.DisplayCurrency)
	if err != nil {
		logrus.WithError(err).Warnf("Moeda inválida, usando %s", format.DefaultCurrency)
		displayCurrency = format.DefaultCurrency
	}

	defaultLanguage := domain.LanguageCode(cfg.I18n.DefaultLanguage)
	if !defaultLanguage.IsSupported() {
		logrus.Warnf("Idioma padrão não suportado: %s, usando %s", defaultLanguage, domain.DefaultLanguage)
		defaultLanguage = domain.DefaultLanguage
	}

	sessions := session.NewManager(
		store,
		fetcher,
		session.NewTokenIssuer(cfg.Session.Secret, cfg.Session.TokenTTL),
		session.WithPreferences(preferences),
		session.WithDefaultLanguage(defaultLanguage),
		session.WithDisplayCurrency(displayCurrency),
		session.WithLoaderOptions(
			kpi.WithSupportedWindows(cfg.KPI.SupportedWindows...),
			kpi.WithTimeout(cfg.KPI.FetchTimeout),
		),
	)

	sweepService := scheduler.NewSessionSweepService(sessions, cfg)
	if err := sweepService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de sessões")
	} else {
		logrus.Info("Agendador de limpeza de sessões iniciado com sucesso")
	}

	server, err := api.New(cfg, store, sessions, sweepService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	_ = os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// metricsFetcher escolhe a fonte de métricas conforme DATA_SOURCE
func metricsFetcher(cfg *config.Config, conn *postgres.Connection) kpi.MetricsFetcher {
	logger := logrus.WithField("data_source", cfg.App.DataSource)

	switch cfg.App.DataSource {
	case config.DataSourcePostgres:
		logger.Info("Métricas servidas pelo PostgreSQL")
		return repository.NewMetricsRepository(conn)
	case config.DataSourceHTTP:
		logger.WithField("backend_url", cfg.Backend.URL).Info("Métricas servidas pelo backend HTTP")
		return backend.NewMetricsClient(cfg.Backend)
	default:
		logger.WithField("latency", cfg.KPI.FixtureLatency.String()).Info("Métricas servidas pela fixture em memória")
		return fixture.NewMetricsFixture(cfg.KPI.FixtureLatency)
	}
}

func preferenceRepository(cfg *config.Config, conn *postgres.Connection) repository.PreferenceRepository {
	if cfg.App.PreferenceStore == config.PreferenceStorePostgres {
		return repository.NewPreferenceRepository(conn)
	}
	return repository.NewMemoryPreferenceRepository()
}
