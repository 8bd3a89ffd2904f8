package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	viper.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")

	viper.BindEnv("dedup.retention_seconds", "DEDUP_RETENTION_SECONDS")
	viper.BindEnv("dedup.sweep_interval_seconds", "DEDUP_SWEEP_INTERVAL_SECONDS")

	viper.BindEnv("devices.dir", "DEVICES_DIR")

	viper.BindEnv("actions.webhook_url", "ACTIONS_WEBHOOK_URL")

	viper.BindEnv("forwarder.enabled", "FORWARDER_ENABLED")
	viper.BindEnv("forwarder.kafka.brokers", "FORWARDER_KAFKA_BROKERS")
	viper.BindEnv("forwarder.kafka.topic", "FORWARDER_KAFKA_TOPIC")
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("FORWARDER_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Forwarder.Kafka.Brokers = brokers
		}
	}

	return nil
}
