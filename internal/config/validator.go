package config

import (
	"fmt"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateServer(cfg.Server); err != nil {
		errs = append(errs, err)
	}

	if err := validateDedup(cfg.Dedup); err != nil {
		errs = append(errs, err)
	}

	if err := validateRateLimit(cfg.RateLimit); err != nil {
		errs = append(errs, err)
	}

	if err := validateForwarder(cfg.Forwarder); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	return nil
}

func validateDedup(cfg DedupConfig) error {
	if cfg.RetentionSeconds < 0 {
		return &ValidationError{
			Field:   "dedup.retention_seconds",
			Message: "retention must be non-negative",
		}
	}

	if cfg.SweepIntervalSeconds < 0 {
		return &ValidationError{
			Field:   "dedup.sweep_interval_seconds",
			Message: "sweep interval must be non-negative",
		}
	}

	return nil
}

func validateRateLimit(cfg RateLimitConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.RPS <= 0 {
		return &ValidationError{
			Field:   "ratelimit.rps",
			Message: "rps must be positive when rate limiting is enabled",
		}
	}

	if cfg.Burst <= 0 {
		return &ValidationError{
			Field:   "ratelimit.burst",
			Message: "burst must be positive when rate limiting is enabled",
		}
	}

	return nil
}

func validateForwarder(cfg ForwarderConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return &ValidationError{
			Field:   "forwarder.kafka.brokers",
			Message: "at least one Kafka broker is required when the forwarder is enabled",
		}
	}

	for i, broker := range cfg.Kafka.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("forwarder.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.Kafka.Topic == "" {
		return &ValidationError{
			Field:   "forwarder.kafka.topic",
			Message: "topic is required when the forwarder is enabled",
		}
	}

	return nil
}
