package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	Lifecycle LifecycleConfig
	RateLimit RateLimitConfig
	Billing   BillingConfig
	Client    ClientConfig
	Documents DocumentsConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	AutoMigrate   bool
	MigrationsDir string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig configures the single administrator password gate.
type AuthConfig struct {
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration
	CookieName        string
	CookieSecure      bool
	CookieDomain      string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheTTL time.Duration
}

// LifecycleConfig drives the session/enrollment status refresh workers.
type LifecycleConfig struct {
	Enabled      bool
	SweepCron    string
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
	TimeLocation string
}

// RateLimitConfig limits login attempts per client IP.
type RateLimitConfig struct {
	Login string
}

// BillingConfig holds invoice rendering settings.
type BillingConfig struct {
	Currency   string
	SchoolName string
}

// DocumentsConfig locates uploaded student documents and signs their
// download links.
type DocumentsConfig struct {
	Dir         string
	LinkSecret  string
	LinkTTL     time.Duration
	MaxFileSize int64
}

// ClientConfig is read by the front-desk CLI.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		MigrationsDir: v.GetString("DB_MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
		CookieName:        v.GetString("SESSION_COOKIE_NAME"),
		CookieSecure:      v.GetBool("SESSION_COOKIE_SECURE"),
		CookieDomain:      v.GetString("SESSION_COOKIE_DOMAIN"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Lifecycle = LifecycleConfig{
		Enabled:      v.GetBool("ENABLE_LIFECYCLE"),
		SweepCron:    v.GetString("LIFECYCLE_SWEEP_CRON"),
		Workers:      v.GetInt("LIFECYCLE_WORKERS"),
		MaxRetries:   v.GetInt("LIFECYCLE_MAX_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("LIFECYCLE_RETRY_DELAY"), 2*time.Second),
		TimeLocation: v.GetString("TIME_LOCATION"),
	}

	cfg.RateLimit = RateLimitConfig{
		Login: v.GetString("LOGIN_RATE_LIMIT"),
	}

	cfg.Billing = BillingConfig{
		Currency:   v.GetString("CURRENCY"),
		SchoolName: v.GetString("SCHOOL_NAME"),
	}

	cfg.Client = ClientConfig{
		BaseURL: v.GetString("ECOLE_API_URL"),
		Timeout: parseDuration(v.GetString("ECOLE_API_TIMEOUT"), 10*time.Second),
	}

	cfg.Documents = DocumentsConfig{
		Dir:         v.GetString("DOCUMENTS_DIR"),
		LinkSecret:  v.GetString("DOCUMENT_LINK_SECRET"),
		LinkTTL:     parseDuration(v.GetString("DOCUMENT_LINK_TTL"), 15*time.Minute),
		MaxFileSize: v.GetInt64("DOCUMENT_MAX_SIZE"),
	}
	if cfg.Documents.LinkSecret == "" {
		cfg.Documents.LinkSecret = cfg.Auth.SessionSecret
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ecole_peg")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_MIGRATIONS_DIR", "")

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_COOKIE_NAME", "ecole_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_COOKIE_DOMAIN", "")

	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_LIFECYCLE", true)
	v.SetDefault("LIFECYCLE_SWEEP_CRON", "@daily")
	v.SetDefault("LIFECYCLE_WORKERS", 1)
	v.SetDefault("LIFECYCLE_MAX_RETRIES", 3)
	v.SetDefault("LIFECYCLE_RETRY_DELAY", "2s")
	v.SetDefault("TIME_LOCATION", "Europe/Zurich")

	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")

	v.SetDefault("CURRENCY", "CHF")
	v.SetDefault("SCHOOL_NAME", "École PEG")

	v.SetDefault("ECOLE_API_URL", "http://localhost:8000/api")
	v.SetDefault("ECOLE_API_TIMEOUT", "10s")

	v.SetDefault("DOCUMENTS_DIR", "./uploads")
	v.SetDefault("DOCUMENT_LINK_SECRET", "")
	v.SetDefault("DOCUMENT_LINK_TTL", "15m")
	v.SetDefault("DOCUMENT_MAX_SIZE", 10*1024*1024)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
