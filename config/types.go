package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Mailgun MailgunConfig `mapstructure:"mailgun"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MailgunConfig holds Mailgun API connection details
type MailgunConfig struct {
	Domain        string        `mapstructure:"domain"`
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ConnectionTTL time.Duration `mapstructure:"connection_ttl"`
}

// BatchConfig controls bulk operations such as member imports
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig toggles Prometheus request metrics
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
