package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yigit/courseplanner/internal/pkg/semester"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Feed struct {
		BaseURL            string  `yaml:"base_url" env:"FEED_BASE_URL"`
		Timeout            string  `yaml:"timeout" env:"FEED_TIMEOUT"`
		RequestsPerSecond  float64 `yaml:"requests_per_second" env:"FEED_REQUESTS_PER_SECOND"`
		Burst              int     `yaml:"burst" env:"FEED_BURST"`
		HistoryConcurrency int     `yaml:"history_concurrency" env:"FEED_HISTORY_CONCURRENCY"`
	} `yaml:"feed"`

	Catalog struct {
		BaseYear int `yaml:"base_year" env:"CATALOG_BASE_YEAR"`
		// EnrollingSemester is used when the terms table has no enrolling row.
		EnrollingSemester int  `yaml:"enrolling_semester" env:"CATALOG_ENROLLING_SEMESTER"`
		LoadOnStart       bool `yaml:"load_on_start" env:"CATALOG_LOAD_ON_START"`
		EventLogSize      int  `yaml:"event_log_size" env:"CATALOG_EVENT_LOG_SIZE"`
	} `yaml:"catalog"`

	// Redis is optional; an empty Addr disables cross-process event fan-out.
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		Channel  string `yaml:"channel" env:"REDIS_CHANNEL"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine; defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "courseplanner"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Feed.BaseURL = "https://coursys.sfu.ca"
	config.Feed.Timeout = "10s"
	config.Feed.RequestsPerSecond = 5
	config.Feed.Burst = 5
	config.Feed.HistoryConcurrency = 4

	config.Catalog.BaseYear = semester.DefaultBaseYear
	config.Catalog.EnrollingSemester = 1261
	config.Catalog.LoadOnStart = true
	config.Catalog.EventLogSize = 50

	config.Redis.Channel = "catalog-events"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}

	if config.Feed.BaseURL == "" {
		return fmt.Errorf("feed base url is required")
	}

	if _, err := time.ParseDuration(config.Feed.Timeout); err != nil {
		return fmt.Errorf("invalid feed timeout format: %w", err)
	}

	if config.Feed.RequestsPerSecond <= 0 || config.Feed.Burst <= 0 {
		return fmt.Errorf("feed rate limit must be positive")
	}

	if config.Feed.HistoryConcurrency < 1 {
		return fmt.Errorf("feed history concurrency must be at least 1")
	}

	if config.Catalog.BaseYear < 0 {
		return fmt.Errorf("catalog base year must not be negative")
	}

	codec := semester.NewCodec(config.Catalog.BaseYear)
	if _, err := codec.Decode(config.Catalog.EnrollingSemester); err != nil {
		return fmt.Errorf("invalid enrolling semester: %w", err)
	}

	if config.Catalog.EventLogSize < 1 {
		return fmt.Errorf("catalog event log size must be at least 1")
	}

	if config.Redis.Addr != "" && config.Redis.Channel == "" {
		return fmt.Errorf("redis channel is required when redis is enabled")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Codec returns the semester codec for the configured base year.
func (c *Config) Codec() semester.Codec {
	return semester.NewCodec(c.Catalog.BaseYear)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
