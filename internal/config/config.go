package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultMaxReceiptBytes fica abaixo do limite de corpo da plataforma de hospedagem (~4.5MB)
const DefaultMaxReceiptBytes = 4 * 1024 * 1024

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Supabase     Supabase     `mapstructure:",squash"`
	Upload       Upload       `mapstructure:",squash"`
	Cors         Cors         `mapstructure:",squash"`
	Admin        Admin        `mapstructure:",squash"`
	ReceiptSweep ReceiptSweep `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

type Supabase struct {
	URL            string         `mapstructure:"supabase_url"`
	ServiceRoleKey string         `mapstructure:"supabase_service_role_key"`
	AnonKey        string         `mapstructure:"supabase_anon_key"`
	ReceiptsBucket string         `mapstructure:"receipts_bucket"`
	Key            string         `mapstructure:"-"`
	KeyTier        CredentialTier `mapstructure:"-"`
	KeyRole        string         `mapstructure:"-"` // claim "role" da chave em uso, vazia se não for JWT
}

type Upload struct {
	MaxReceiptBytes int64 `mapstructure:"upload_max_receipt_bytes"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Admin struct {
	KeyHash string `mapstructure:"admin_key_hash"`
}

type ReceiptSweep struct {
	CronSchedule string `mapstructure:"receipt_sweep_cron"`
	Enabled      bool   `mapstructure:"receipt_sweep_enabled"`
	GraceMinutes int    `mapstructure:"receipt_sweep_grace_minutes"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 3000)

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "debug")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ticket_sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", false)

	viper.SetDefault("SUPABASE_URL", "http://localhost:54321")
	viper.SetDefault("SUPABASE_SERVICE_ROLE_KEY", "")
	viper.SetDefault("SUPABASE_ANON_KEY", "")
	viper.SetDefault("RECEIPTS_BUCKET", "receipts")

	viper.SetDefault("UPLOAD_MAX_RECEIPT_BYTES", DefaultMaxReceiptBytes)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("ADMIN_KEY_HASH", "")

	viper.SetDefault("RECEIPT_SWEEP_CRON", "0 4 * * *")  // Todos os dias às 4h da manhã
	viper.SetDefault("RECEIPT_SWEEP_ENABLED", false)     // Limpeza de comprovantes órfãos
	viper.SetDefault("RECEIPT_SWEEP_GRACE_MINUTES", 60) // Não remove uploads recentes
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = buildDSN(config.Database)

	config.Supabase.URL = strings.TrimRight(config.Supabase.URL, "/")
	config.Supabase.Key, config.Supabase.KeyTier = ResolveStorageKey(config.Supabase)
	if config.Supabase.Key == "" {
		return nil, fmt.Errorf("config: SUPABASE_SERVICE_ROLE_KEY ou SUPABASE_ANON_KEY é obrigatória")
	}
	config.Supabase.KeyRole = KeyRole(config.Supabase.Key)

	if config.Upload.MaxReceiptBytes <= 0 {
		config.Upload.MaxReceiptBytes = DefaultMaxReceiptBytes
	}

	config.Cors.AllowedOrigins = trimAll(config.Cors.AllowedOrigins)

	return config, nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// buildDSN aceita uma URL completa (postgres://...) ou monta a partir das partes
func buildDSN(db Database) string {
	if strings.Contains(db.URL, "://") {
		return db.URL
	}

	return fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// loadEnvFile carrega o primeiro .env encontrado
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
