// Package config loads application configuration from a YAML file with
// environment variable overrides. Secrets live in env vars (or a local
// .env); the YAML carries endpoints, model ids, and tuning knobs.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	TableStore TableStoreConfig `yaml:"tablestore"`
	Scrape     ScrapeConfig     `yaml:"scrape"`
	AI         AIConfig         `yaml:"ai"`
	Payment    PaymentConfig    `yaml:"payment"`
	Email      EmailConfig      `yaml:"email"`
	Redis      RedisConfig      `yaml:"redis"`
	Poll       PollConfig       `yaml:"poll"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
	BaseURL string `yaml:"base_url"` // public site URL used in checkout redirects
}

// GetHost returns the server host, with container detection.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// TableStoreConfig holds record store API configuration.
type TableStoreConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	BaseID         string `yaml:"base_id"`
	TableName      string `yaml:"table_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c TableStoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ScrapeConfig holds scrape job service configuration.
type ScrapeConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIToken       string `yaml:"api_token"`
	ActorID        string `yaml:"actor_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c ScrapeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AIConfig holds generative model configuration (Bedrock).
type AIConfig struct {
	Region        string `yaml:"region"`
	FreemiumModel string `yaml:"freemium_model"`
	AnalyzerModel string `yaml:"analyzer_model"`
	WriterModel   string `yaml:"writer_model"`
	MaxTokens     int    `yaml:"max_tokens"`
}

// PaymentConfig holds hosted checkout provider configuration.
type PaymentConfig struct {
	BaseURL        string `yaml:"base_url"`
	SecretKey      string `yaml:"secret_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
	PriceID        string `yaml:"price_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c PaymentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EmailConfig holds SES email delivery configuration.
type EmailConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	From      string `yaml:"from"`
	Enabled   bool   `yaml:"enabled"`
}

// RedisConfig holds the Redis connection for per-record locks.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// PollConfig holds client poller defaults.
type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	MaxAttempts     int `yaml:"max_attempts"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`
}

// Interval returns the polling interval as a duration.
func (c PollConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Timeout returns the wall-clock poll timeout as a duration.
func (c PollConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ArchiveConfig holds the optional S3 raw-scrape archive settings.
type ArchiveConfig struct {
	Enabled  bool   `yaml:"enabled"`
	S3Bucket string `yaml:"s3_bucket"`
	Region   string `yaml:"region"`
}

// EventLogConfig is carried inside PaymentConfig via env only; the DynamoDB
// table for webhook event dedup is optional.
func (c PaymentConfig) EventLogTable() string {
	return os.Getenv("PAYMENT_EVENT_LOG_TABLE")
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "https://airbnboptimizer.com"
	}
	if cfg.TableStore.BaseURL == "" {
		cfg.TableStore.BaseURL = "https://api.airtable.com/v0"
	}
	if cfg.TableStore.TableName == "" {
		cfg.TableStore.TableName = "Listings"
	}
	if cfg.TableStore.TimeoutSeconds == 0 {
		cfg.TableStore.TimeoutSeconds = 15
	}
	if cfg.Scrape.BaseURL == "" {
		cfg.Scrape.BaseURL = "https://api.apify.com/v2"
	}
	if cfg.Scrape.ActorID == "" {
		cfg.Scrape.ActorID = "pIyP4eyT6kBUZ2fHe"
	}
	if cfg.Scrape.TimeoutSeconds == 0 {
		cfg.Scrape.TimeoutSeconds = 30
	}
	if cfg.AI.Region == "" {
		cfg.AI.Region = "us-east-1"
	}
	if cfg.AI.FreemiumModel == "" {
		cfg.AI.FreemiumModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	}
	if cfg.AI.AnalyzerModel == "" {
		cfg.AI.AnalyzerModel = cfg.AI.FreemiumModel
	}
	if cfg.AI.WriterModel == "" {
		cfg.AI.WriterModel = "anthropic.claude-3-5-haiku-20241022-v1:0"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 2000
	}
	if cfg.Payment.BaseURL == "" {
		cfg.Payment.BaseURL = "https://api.stripe.com/v1"
	}
	if cfg.Payment.TimeoutSeconds == 0 {
		cfg.Payment.TimeoutSeconds = 20
	}
	if cfg.Email.Region == "" {
		cfg.Email.Region = "us-west-2"
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "Arthur <arthur@hello.airbnboptimizer.com>"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Poll.IntervalSeconds == 0 {
		cfg.Poll.IntervalSeconds = 3
	}
	if cfg.Poll.MaxAttempts == 0 {
		cfg.Poll.MaxAttempts = 20
	}
	if cfg.Poll.TimeoutSeconds == 0 {
		cfg.Poll.TimeoutSeconds = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) first, so secrets can live in .env
// locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TABLESTORE_API_KEY"); v != "" {
		cfg.TableStore.APIKey = v
	}
	if v := os.Getenv("TABLESTORE_BASE_ID"); v != "" {
		cfg.TableStore.BaseID = v
	}
	if v := os.Getenv("TABLESTORE_TABLE_NAME"); v != "" {
		cfg.TableStore.TableName = v
	}
	if v := os.Getenv("TABLESTORE_BASE_URL"); v != "" {
		cfg.TableStore.BaseURL = v
	}
	if v := os.Getenv("SCRAPE_API_TOKEN"); v != "" {
		cfg.Scrape.APIToken = v
	}
	if v := os.Getenv("SCRAPE_BASE_URL"); v != "" {
		cfg.Scrape.BaseURL = v
	}
	if v := os.Getenv("PAYMENT_SECRET_KEY"); v != "" {
		cfg.Payment.SecretKey = v
	}
	if v := os.Getenv("PAYMENT_WEBHOOK_SECRET"); v != "" {
		cfg.Payment.WebhookSecret = v
	}
	if v := os.Getenv("PAYMENT_PRICE_ID"); v != "" {
		cfg.Payment.PriceID = v
	}
	if v := os.Getenv("PAYMENT_BASE_URL"); v != "" {
		cfg.Payment.BaseURL = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Email.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Email.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Email.Region = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}

	return cfg, nil
}

// Validate checks that every secret the pipeline needs is present.
// The returned error enumerates all missing names so a misconfigured
// deployment fails once with the full list, not one secret at a time.
func (c *Config) Validate() error {
	var missing []string
	if c.TableStore.APIKey == "" {
		missing = append(missing, "TABLESTORE_API_KEY")
	}
	if c.TableStore.BaseID == "" {
		missing = append(missing, "TABLESTORE_BASE_ID")
	}
	if c.Scrape.APIToken == "" {
		missing = append(missing, "SCRAPE_API_TOKEN")
	}
	if c.Payment.SecretKey == "" {
		missing = append(missing, "PAYMENT_SECRET_KEY")
	}
	if c.Payment.WebhookSecret == "" {
		missing = append(missing, "PAYMENT_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
