package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig holds database connection and pool settings.
type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DSN returns the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Config holds all application configuration.
type Config struct {
	AppPort     string
	Environment string
	LogLevel    string
	RabbitMQURL string
	// EmptyListNotFound makes GET /products answer 404 instead of an empty array.
	EmptyListNotFound bool
	DB                DBConfig
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("PRODUCTS_EMPTY_NOT_FOUND", false)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "toko")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "toko.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_AUTO_MIGRATE", true)
}

// Load reads configuration from the environment on top of the defaults.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		Environment:       v.GetString("APP_ENV"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		EmptyListNotFound: v.GetBool("PRODUCTS_EMPTY_NOT_FOUND"),
		DB: DBConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			SQLitePath:      v.GetString("DB_SQLITE_PATH"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
	}

	if !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.DB.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > cfg.DB.MaxOpenConns {
		cfg.DB.MaxIdleConns = cfg.DB.MaxOpenConns
	}

	return cfg, nil
}
