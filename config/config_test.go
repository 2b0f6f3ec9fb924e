package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Mailgun: MailgunConfig{
			Domain:        "mg.example.com",
			APIKey:        "key-123",
			BaseURL:       "https://api.mailgun.net/v3",
			Timeout:       30 * time.Second,
			ConnectionTTL: time.Hour,
		},
		Batch:   BatchConfig{Concurrency: 5},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing domain", modify: func(c *Config) { c.Mailgun.Domain = "" }, wantErr: "mailgun.domain is required"},
		{name: "missing api key", modify: func(c *Config) { c.Mailgun.APIKey = "" }, wantErr: "mailgun.api_key"},
		{name: "placeholder api key", modify: func(c *Config) { c.Mailgun.APIKey = "your-api-key-here" }, wantErr: "mailgun.api_key"},
		{name: "missing base url", modify: func(c *Config) { c.Mailgun.BaseURL = "" }, wantErr: "mailgun.base_url"},
		{name: "negative timeout", modify: func(c *Config) { c.Mailgun.Timeout = -time.Second }, wantErr: "mailgun.timeout"},
		{name: "zero ttl", modify: func(c *Config) { c.Mailgun.ConnectionTTL = 0 }, wantErr: "mailgun.connection_ttl"},
		{name: "zero concurrency", modify: func(c *Config) { c.Batch.Concurrency = 0 }, wantErr: "batch.concurrency"},
		{name: "huge concurrency", modify: func(c *Config) { c.Batch.Concurrency = 500 }, wantErr: "batch.concurrency"},
		{name: "bad level", modify: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "invalid logging level"},
		{name: "bad format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "mgctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mailgun:
  domain: mg.example.com
  api_key: key-file
  timeout: 10s
batch:
  concurrency: 8
logging:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mg.example.com", cfg.Mailgun.Domain)
	assert.Equal(t, "key-file", cfg.Mailgun.APIKey)
	assert.Equal(t, "https://api.mailgun.net/v3", cfg.Mailgun.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Mailgun.Timeout)
	assert.Equal(t, 60*time.Minute, cfg.Mailgun.ConnectionTTL)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "mgctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mailgun:\n  domain: mg.example.com\n  api_key: key-file\n"), 0o600))

	t.Setenv("MGCTL_MAILGUN_API_KEY", "key-env")
	t.Setenv("MGCTL_MAILGUN_CONNECTION_TTL", "15m")
	t.Setenv("MGCTL_METRICS_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "key-env", cfg.Mailgun.APIKey)
	assert.Equal(t, 15*time.Minute, cfg.Mailgun.ConnectionTTL)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Setenv("MGCTL_MAILGUN_DOMAIN", "env.example.com")
	t.Setenv("MGCTL_MAILGUN_API_KEY", "key-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", cfg.Mailgun.Domain)
	assert.Equal(t, 5, cfg.Batch.Concurrency)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MGCTL_MAILGUN_DOMAIN=dotenv.example.com\nMGCTL_MAILGUN_API_KEY=key-dotenv\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MGCTL_MAILGUN_DOMAIN")
		os.Unsetenv("MGCTL_MAILGUN_API_KEY")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv.example.com", cfg.Mailgun.Domain)
	assert.Equal(t, "key-dotenv", cfg.Mailgun.APIKey)
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")

	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailgun.domain is required")
}
