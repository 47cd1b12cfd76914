package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`       // current application environment (local, dev, production etc)
	LogLevel         string    `mapstructure:"log_level"` // overrides the environment's default level when set
	TelegramAPIToken string    `mapstructure:"-"`   // Telegram API token loaded from environment, optional
	HTTP             HTTP      `mapstructure:"http"`
	DB               DB        `mapstructure:"database"`
	Auth             Auth      `mapstructure:"auth"`
	Review           Review    `mapstructure:"review"`
	AI               AI        `mapstructure:"ai"`
	Reminders        Reminders `mapstructure:"reminders"`
}

// HTTP configures the JSON API server.
type HTTP struct {
	Address        string   `mapstructure:"address"`
	BasePath       string   `mapstructure:"base_path"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	BodyLimit      string   `mapstructure:"body_limit"` // echo size string such as "10M"
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Auth struct {
	JWTSecret     string        `mapstructure:"-"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	PasswordReset bool          `mapstructure:"password_reset"` // unauthenticated reset by email, off in production by default
}

type Review struct {
	GateMode        string `mapstructure:"gate_mode"`        // off or strict
	DefaultTimezone string `mapstructure:"default_timezone"` // used for users without a valid timezone
}

type AI struct {
	APIKey     string        `mapstructure:"-"` // question generation is disabled when empty
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type Reminders struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
	Hour    int    `mapstructure:"hour"`
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "")
	v.SetDefault("http.address", ":8000")
	v.SetDefault("http.base_path", "/api")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.rate_limit_rps", 10)
	v.SetDefault("http.rate_limit_burst", 20)
	v.SetDefault("http.body_limit", "10M")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("auth.token_ttl", "720h")
	v.SetDefault("review.gate_mode", "off")
	v.SetDefault("review.default_timezone", "UTC")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.cron", "0 * * * *")
	v.SetDefault("reminders.hour", 8)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Password reset does not verify the email owner.
	v.SetDefault("auth.password_reset", v.GetString("env") != "production")

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.AI.APIKey = v.GetString("openai_api_key")

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingEnvironmentVariables)
	}

	return &cfg, nil
}
