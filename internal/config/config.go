package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	App    AppConfig    `mapstructure:"app" validate:"required"`
	Bus    BusConfig    `mapstructure:"bus" validate:"required"`
	Store  StoreConfig  `mapstructure:"store" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
	Ledger LedgerConfig `mapstructure:"ledger" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// AppConfig carries the values echoed by the hello flow.
type AppConfig struct {
	Name           string `mapstructure:"name" validate:"required"`
	GreetingPrefix string `mapstructure:"greeting_prefix" validate:"required"`
}

// BusConfig selects and sizes the event dispatcher.
type BusConfig struct {
	Driver      string `mapstructure:"driver" validate:"required,oneof=memory cloud"`
	QueueSize   int    `mapstructure:"queue_size" validate:"gt=0"`
	WorkerCount int    `mapstructure:"worker_count" validate:"gt=0"`
	// TopicURL is a gocloud pubsub URL with a %s placeholder for the topic
	// name, e.g. "mem://courier-%s".
	TopicURL string `mapstructure:"topic_url" validate:"required_if=Driver cloud"`
	// SubscriptionURL is the matching format for subscriptions. Empty means
	// TopicURL, which suits mem://. Brokers that name subscriptions apart
	// from topics need it, e.g. "gcppubsub://projects/p/subscriptions/%s".
	SubscriptionURL string `mapstructure:"subscription_url"`
}

// StoreConfig selects the State Store backend.
type StoreConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=memory postgres redis blob"`
	DatabaseURL  string `mapstructure:"database_url" validate:"required_if=Driver postgres"`
	RedisAddr    string `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPrefix  string `mapstructure:"redis_prefix"`
	BucketURL    string `mapstructure:"bucket_url" validate:"required_if=Driver blob"`
	BucketPrefix string `mapstructure:"bucket_prefix"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey may be empty; the username worker then reports every
	// request as failed.
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	// PromptTemplatePath overrides the built-in prompt when set.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}

// LedgerConfig controls expiry of requests that never received a result.
type LedgerConfig struct {
	SweepSchedule string        `mapstructure:"sweep_schedule" validate:"required"`
	MaxAge        time.Duration `mapstructure:"max_age" validate:"gt=0"`
}
