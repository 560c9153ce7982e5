package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Fontes de dados aceitas em DATA_SOURCE
const (
	DataSourceFixture  = "fixture"
	DataSourcePostgres = "postgres"
	DataSourceHTTP     = "http"
)

// Armazenamentos de preferências aceitos em PREFERENCE_STORE
const (
	PreferenceStoreMemory   = "memory"
	PreferenceStorePostgres = "postgres"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	KPI          KPI          `mapstructure:",squash"`
	Backend      Backend      `mapstructure:",squash"`
	I18n         I18n         `mapstructure:",squash"`
	Session      Session      `mapstructure:",squash"`
	SessionSweep SessionSweep `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel        string `mapstructure:"log_level"`
	DataSource      string `mapstructure:"data_source"`
	PreferenceStore string `mapstructure:"preference_store"`
}

type KPI struct {
	SupportedWindows []int         `mapstructure:"kpi_supported_windows"`
	FetchTimeout     time.Duration `mapstructure:"kpi_fetch_timeout"`
	FixtureLatency   time.Duration `mapstructure:"fixture_latency"`
}

type Backend struct {
	URL     string        `mapstructure:"backend_url"`
	Token   string        `mapstructure:"backend_token"`
	Timeout time.Duration `mapstructure:"backend_timeout"`
}

type I18n struct {
	DefaultLanguage string `mapstructure:"default_language"`
	DisplayCurrency string `mapstructure:"display_currency"`
}

type Session struct {
	Secret   string        `mapstructure:"session_secret"`
	IdleTTL  time.Duration `mapstructure:"session_idle_ttl"`
	TokenTTL time.Duration `mapstructure:"session_token_ttl"`
}

type SessionSweep struct {
	CronSchedule string `mapstructure:"session_sweep_cron"`
	Enabled      bool   `mapstructure:"session_sweep_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("DATA_SOURCE", DataSourceFixture)
	viper.SetDefault("PREFERENCE_STORE", PreferenceStoreMemory)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("KPI_SUPPORTED_WINDOWS", "7,14,30")
	viper.SetDefault("KPI_FETCH_TIMEOUT", "10s")
	viper.SetDefault("FIXTURE_LATENCY", "800ms") // Simula a latência do backend

	viper.SetDefault("BACKEND_URL", "http://localhost:8080/api")
	viper.SetDefault("BACKEND_TOKEN", "")
	viper.SetDefault("BACKEND_TIMEOUT", "30s")

	viper.SetDefault("DEFAULT_LANGUAGE", "pt-BR")
	viper.SetDefault("DISPLAY_CURRENCY", "BRL")

	viper.SetDefault("SESSION_SECRET", "your_session_secret") // ONLY LOCAL
	viper.SetDefault("SESSION_IDLE_TTL", "30m")
	viper.SetDefault("SESSION_TOKEN_TTL", "12h")

	viper.SetDefault("SESSION_SWEEP_CRON", "*/5 * * * *") // A cada 5 minutos
	viper.SetDefault("SESSION_SWEEP_ENABLED", true)
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica combinações de configuração que impediriam a inicialização
func (c *Config) Validate() error {
	switch c.App.DataSource {
	case DataSourceFixture, DataSourcePostgres, DataSourceHTTP:
	default:
		return fmt.Errorf("config: DATA_SOURCE inválido: %q", c.App.DataSource)
	}

	switch c.App.PreferenceStore {
	case PreferenceStoreMemory, PreferenceStorePostgres:
	default:
		return fmt.Errorf("config: PREFERENCE_STORE inválido: %q", c.App.PreferenceStore)
	}

	if len(c.KPI.SupportedWindows) == 0 {
		return fmt.Errorf("config: KPI_SUPPORTED_WINDOWS não pode ser vazio")
	}

	for _, window := range c.KPI.SupportedWindows {
		if window <= 0 {
			return fmt.Errorf("config: janela inválida em KPI_SUPPORTED_WINDOWS: %d", window)
		}
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET é obrigatório")
	}

	return nil
}

// UsesDatabase indica se alguma dependência precisa da conexão com o PostgreSQL
func (c *Config) UsesDatabase() bool {
	return c.App.DataSource == DataSourcePostgres || c.App.PreferenceStore == PreferenceStorePostgres
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
