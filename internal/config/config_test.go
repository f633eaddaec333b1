package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "https://airbnboptimizer.com", cfg.Server.BaseURL)
	assert.Equal(t, "https://api.airtable.com/v0", cfg.TableStore.BaseURL)
	assert.Equal(t, "Listings", cfg.TableStore.TableName)
	assert.Equal(t, 15*time.Second, cfg.TableStore.Timeout())
	assert.Equal(t, "https://api.apify.com/v2", cfg.Scrape.BaseURL)
	assert.Equal(t, "pIyP4eyT6kBUZ2fHe", cfg.Scrape.ActorID)
	assert.Equal(t, "us-east-1", cfg.AI.Region)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", cfg.AI.FreemiumModel)
	assert.Equal(t, cfg.AI.FreemiumModel, cfg.AI.AnalyzerModel)
	assert.Equal(t, "anthropic.claude-3-5-haiku-20241022-v1:0", cfg.AI.WriterModel)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, "https://api.stripe.com/v1", cfg.Payment.BaseURL)
	assert.Equal(t, "Arthur <arthur@hello.airbnboptimizer.com>", cfg.Email.From)
	assert.Equal(t, 3*time.Second, cfg.Poll.Interval())
	assert.Equal(t, 20, cfg.Poll.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Poll.Timeout())
}

func TestLoadExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9000
  base_url: https://staging.example.com
tablestore:
  table_name: ListingsStaging
ai:
  analyzer_model: custom-analyzer
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://staging.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "ListingsStaging", cfg.TableStore.TableName)
	assert.Equal(t, "custom-analyzer", cfg.AI.AnalyzerModel)
	// Untouched sections still get defaults.
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", cfg.AI.FreemiumModel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("TABLESTORE_API_KEY", "key_from_env")
	t.Setenv("TABLESTORE_BASE_ID", "appFromEnv")
	t.Setenv("SCRAPE_API_TOKEN", "apify_from_env")
	t.Setenv("PAYMENT_SECRET_KEY", "sk_from_env")
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec_from_env")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg, err := LoadFromEnv(writeConfig(t, "server:\n  port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, "key_from_env", cfg.TableStore.APIKey)
	assert.Equal(t, "appFromEnv", cfg.TableStore.BaseID)
	assert.Equal(t, "apify_from_env", cfg.Scrape.APIToken)
	assert.Equal(t, "sk_from_env", cfg.Payment.SecretKey)
	assert.Equal(t, "whsec_from_env", cfg.Payment.WebhookSecret)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)

	assert.NoError(t, cfg.Validate())
}

func TestValidateEnumeratesAllMissing(t *testing.T) {
	var cfg Config
	err := cfg.Validate()
	require.Error(t, err)

	for _, name := range []string{
		"TABLESTORE_API_KEY",
		"TABLESTORE_BASE_ID",
		"SCRAPE_API_TOKEN",
		"PAYMENT_SECRET_KEY",
		"PAYMENT_WEBHOOK_SECRET",
	} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestServerConfigGetHost(t *testing.T) {
	cfg := ServerConfig{Host: "localhost"}
	assert.Equal(t, "localhost", cfg.GetHost())

	t.Setenv("SERVER_HOST", "10.0.0.5")
	assert.Equal(t, "10.0.0.5", cfg.GetHost())

	t.Setenv("ECS_CONTAINER_METADATA_URI", "http://169.254.170.2/v3")
	assert.Equal(t, "0.0.0.0", cfg.GetHost())
}
