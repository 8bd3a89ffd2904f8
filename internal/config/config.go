package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig
	Logging        LoggingConfig
	Dedup          DedupConfig
	Devices        DevicesConfig
	RateLimit      RateLimitConfig
	Actions        ActionsConfig
	Forwarder      ForwarderConfig
	CircuitBreaker CircuitBreakerConfig
}

type ServerConfig struct {
	Port                int           `mapstructure:"port"`
	ReadTimeoutSeconds  time.Duration `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds time.Duration `mapstructure:"write_timeout_seconds"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type DedupConfig struct {
	// RetentionSeconds is the cache entry age ceiling. Zero falls back
	// to the built-in default.
	RetentionSeconds int `mapstructure:"retention_seconds"`

	// SweepIntervalSeconds enables the background eviction ticker.
	// Zero disables it; the post-batch eviction still runs.
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
}

type DevicesConfig struct {
	Dir string `mapstructure:"dir"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type ActionsConfig struct {
	// WebhookURL, when set, makes NotifyAdmin post to this endpoint in
	// addition to the logged simulation.
	WebhookURL     string `mapstructure:"webhook_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ForwarderConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Kafka   KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
