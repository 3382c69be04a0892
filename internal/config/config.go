package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvFile is loaded when present; a missing file is not an error.
const DefaultEnvFile = ".env"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	AI           AIConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig tunes the ticket list cache.
type CacheConfig struct {
	TicketsTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig defines API token parameters. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

// AIConfig points the AI gateway at an OpenAI-compatible provider.
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// NotificationConfig holds the outbound webhook target.
type NotificationConfig struct {
	WebhookURL     string
	QueueSize      int
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
// envFile is loaded into the process environment first; pass "" for DefaultEnvFile.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	dsn := v.GetString("postgres_dsn")
	if dsn == "" {
		dsn = buildDSN(v)
	}

	apiKey := v.GetString("ai_api_key")
	if apiKey == "" {
		// older deployments export the Groq key as plain "key"
		apiKey = os.Getenv("key")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  v.GetString("app_name"),
			Env:                   v.GetString("app_env"),
			Host:                  v.GetString("app_host"),
			Port:                  v.GetString("app_port"),
			Version:               v.GetString("app_version"),
			RequestTimeoutSeconds: v.GetInt("http_request_timeout_seconds"),
		},
		Postgres: PostgresConfig{
			DSN:            dsn,
			MaxConns:       v.GetInt32("postgres_max_conns"),
			MinConns:       v.GetInt32("postgres_min_conns"),
			RunMigrations:  v.GetBool("postgres_run_migrations"),
			ConnMaxIdleSec: v.GetInt32("postgres_conn_max_idle_seconds"),
			ConnMaxLifeSec: v.GetInt32("postgres_conn_max_life_seconds"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Cache: CacheConfig{
			TicketsTTLSeconds: v.GetInt("cache_tickets_ttl_seconds"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("auth_jwt_secret"),
			TokenTTLMinutes: v.GetInt("auth_token_ttl_minutes"),
		},
		AI: AIConfig{
			APIKey:         apiKey,
			BaseURL:        v.GetString("ai_base_url"),
			Model:          v.GetString("ai_model"),
			TimeoutSeconds: v.GetInt("ai_timeout_seconds"),
		},
		Notification: NotificationConfig{
			WebhookURL:     v.GetString("notify_webhook_url"),
			QueueSize:      v.GetInt("notify_queue_size"),
			TimeoutSeconds: v.GetInt("notify_timeout_seconds"),
		},
	}

	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid REDIS_DB: %d", cfg.Redis.DB)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "support-desk")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "5000")
	v.SetDefault("app_version", "dev")
	v.SetDefault("http_request_timeout_seconds", 0)

	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("postgres_max_conns", 10)
	v.SetDefault("postgres_min_conns", 2)
	v.SetDefault("postgres_run_migrations", true)
	v.SetDefault("postgres_conn_max_idle_seconds", 30)
	v.SetDefault("postgres_conn_max_life_seconds", 300)

	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_tickets_ttl_seconds", 60)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("auth_token_ttl_minutes", 60*24*30)

	v.SetDefault("ai_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai_model", "deepseek-r1-distill-llama-70b")
	v.SetDefault("ai_timeout_seconds", 0)

	v.SetDefault("notify_queue_size", 64)
	v.SetDefault("notify_timeout_seconds", 5)
}

// buildDSN assembles a postgres URL from the discrete DB_* variables.
// Without DB_NAME there is no database to talk to and the DSN stays empty.
func buildDSN(v *viper.Viper) string {
	name := v.GetString("db_name")
	if name == "" {
		return ""
	}
	host := v.GetString("db_host")
	if host == "" {
		host = "127.0.0.1"
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, v.GetString("db_port")),
		Path:     "/" + name,
		RawQuery: url.Values{"sslmode": []string{v.GetString("db_sslmode")}}.Encode(),
	}
	if user := v.GetString("db_user"); user != "" {
		if pass := v.GetString("db_password"); pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return net.JoinHostPort(a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TicketsTTL returns how long a cached ticket list stays valid.
func (c CacheConfig) TicketsTTL() time.Duration {
	if c.TicketsTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.TicketsTTLSeconds) * time.Second
}

// TokenTTL returns the lifetime of minted API tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// Timeout returns the per-call AI deadline; zero means none.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Timeout bounds a single webhook delivery.
func (n NotificationConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}
