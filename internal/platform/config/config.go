package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	LogLevel       slog.Level
	StorageBackend string

	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string
	SQLitePath     string

	AMQPURL        string // Empty disables AMQP notices
	AMQPExchange   string
	AMQPRoutingKey string

	DueReminderSchedule string // Cron expression
	DueReminderWindow   time.Duration

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_BACKEND", BackendMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations/postgres")
	viper.SetDefault("SQLITE_PATH", "data/ledger.db")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "ledger.notices")
	viper.SetDefault("AMQP_ROUTING_KEY", "notices")
	viper.SetDefault("DUE_REMINDER_SCHEDULE", "0 8 * * *")
	viper.SetDefault("DUE_REMINDER_WINDOW", "72h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		StorageBackend:      strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_BACKEND"))),
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:      viper.GetString("MIGRATIONS_PATH"),
		SQLitePath:          viper.GetString("SQLITE_PATH"),
		AMQPURL:             viper.GetString("AMQP_URL"),
		AMQPExchange:        viper.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey:      viper.GetString("AMQP_ROUTING_KEY"),
		DueReminderSchedule: viper.GetString("DUE_REMINDER_SCHEDULE"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", viper.GetString("LOG_LEVEL"), err)
	}

	windowStr := viper.GetString("DUE_REMINDER_WINDOW")
	window, err := time.ParseDuration(windowStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DUE_REMINDER_WINDOW %q: %w", windowStr, err)
	}
	cfg.DueReminderWindow = window

	if cfg.StorageBackend == BackendPostgres && !cfg.EnableDBCheck {
		slog.Warn("ENABLE_DB_CHECK is off; database connectivity is checked on first use")
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "PGSQL_URL is required for the postgres backend")
		}
		if c.MigrationsPath == "" {
			problems = append(problems, "MIGRATIONS_PATH is required for the postgres backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be one of [%s %s %s]",
			c.StorageBackend, BackendPostgres, BackendSQLite, BackendMemory))
	}

	if c.AMQPURL != "" {
		if !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
			problems = append(problems, "AMQP_URL must start with amqp:// or amqps://")
		}
		if c.AMQPExchange == "" || c.AMQPRoutingKey == "" {
			problems = append(problems, "AMQP_EXCHANGE and AMQP_ROUTING_KEY are required when AMQP_URL is set")
		}
	}

	if c.DueReminderWindow <= 0 {
		problems = append(problems, "DUE_REMINDER_WINDOW must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
