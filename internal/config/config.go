package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:""`

	// Server
	Port       string `envconfig:"PORT" default:"8080"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	// Database
	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     string `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"iker"`
		Password string `envconfig:"DB_PASSWORD" default:"iker"`
		Name     string `envconfig:"DB_NAME" default:"iker_finance"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	}

	// JWT
	JWTSecret string `envconfig:"JWT_SECRET" default:"fallback-secret-key-for-dev-only"`
	JWTIssuer string `envconfig:"JWT_ISSUER" default:"iker-finance"`

	// Shared key for the exchange-rate feed; rate publishing is disabled when empty
	RateFeedAPIKey string `envconfig:"RATE_FEED_API_KEY" default:""`

	// Reference data cache (currencies)
	CurrencyCacheSize int64         `envconfig:"CURRENCY_CACHE_SIZE" default:"1024"`
	CurrencyCacheTTL  time.Duration `envconfig:"CURRENCY_CACHE_TTL" default:"10m"`

	// Number of budgets summarised concurrently per request
	SummaryConcurrency int `envconfig:"SUMMARY_CONCURRENCY" default:"4"`
}

var (
	appConfig *Config
	mu        sync.Mutex
)

// Load loads configuration from the environment, reading a .env file first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.SummaryConcurrency < 1 {
		cfg.SummaryConcurrency = 1
	}

	mu.Lock()
	appConfig = &cfg
	mu.Unlock()
	return &cfg, nil
}

// Get returns the application configuration, loading it on first use.
func Get() *Config {
	mu.Lock()
	cfg := appConfig
	mu.Unlock()
	if cfg != nil {
		return cfg
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// DSN returns the PostgreSQL connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// MigrationURL returns the postgres:// URL used by golang-migrate.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}
