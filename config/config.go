package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MGCTL_MAILGUN_API_KEY
const EnvPrefix = "MGCTL"

// Load loads the configuration. A config file is optional: with an empty
// path the standard locations are searched and a missing file is not an
// error, so the whole configuration can come from the environment. A .env
// file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mgctl"))
		}

		v.AddConfigPath("/etc/mgctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads path into the process environment. Variables that are
// already set win over the file.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key is registered
// here so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("mailgun.domain", "")
	v.SetDefault("mailgun.api_key", "")
	v.SetDefault("mailgun.base_url", "https://api.mailgun.net/v3")
	v.SetDefault("mailgun.timeout", 30*time.Second)
	v.SetDefault("mailgun.connection_ttl", 60*time.Minute)

	v.SetDefault("batch.concurrency", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("metrics.enabled", false)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Mailgun.Domain == "" {
		return fmt.Errorf("mailgun.domain is required")
	}

	if cfg.Mailgun.APIKey == "" || cfg.Mailgun.APIKey == "your-api-key-here" {
		return fmt.Errorf("mailgun.api_key must be set to a valid API key")
	}

	if cfg.Mailgun.BaseURL == "" {
		return fmt.Errorf("mailgun.base_url is required")
	}

	if cfg.Mailgun.Timeout < 0 {
		return fmt.Errorf("mailgun.timeout must not be negative")
	}

	if cfg.Mailgun.ConnectionTTL <= 0 {
		return fmt.Errorf("mailgun.connection_ttl must be positive")
	}

	if cfg.Batch.Concurrency < 1 || cfg.Batch.Concurrency > 50 {
		return fmt.Errorf("batch.concurrency must be between 1 and 50, got %d", cfg.Batch.Concurrency)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
