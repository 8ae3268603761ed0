package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment: server.port becomes COURIER_SERVER_PORT.
const EnvPrefix = "COURIER"

// legacyEnv maps configuration keys to the unprefixed variable names older
// deployments set.
var legacyEnv = map[string]string{
	"app.name":            "APP_NAME",
	"app.greeting_prefix": "GREETING_PREFIX",
	"llm.gemini_api_key":  "GEMINI_API_KEY",
	"store.database_url":  "DATABASE_URL",
}

// Load configuration from environment variables and optionally a config file
// named courier.yaml in the working directory or /etc/courier.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the config file at path when path is
// not empty. A missing explicit file is an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("courier")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/courier")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("app.name", "Courier")
	v.SetDefault("app.greeting_prefix", "Hello")

	v.SetDefault("bus.driver", "memory")
	v.SetDefault("bus.queue_size", 256)
	v.SetDefault("bus.worker_count", 4)
	v.SetDefault("bus.topic_url", "mem://courier-%s")
	v.SetDefault("bus.subscription_url", "")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.redis_addr", "")
	v.SetDefault("store.redis_prefix", "courier")
	v.SetDefault("store.bucket_url", "")
	v.SetDefault("store.bucket_prefix", "state/")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.prompt_template_path", "")

	v.SetDefault("ledger.sweep_schedule", "@every 1m")
	v.SetDefault("ledger.max_age", 15*time.Minute)
}
