package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Assistant AssistantConfig `yaml:"assistant"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                     string `yaml:"host"`
	Port                     int    `yaml:"port"`
	AssistantEventsTopicName string `yaml:"assistant_events_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AssistantConfig struct {
	OrderStore  string `yaml:"order_store"` // "memory" | "postgres"
	SeedPath    string `yaml:"seed_path"`
	SeedOnStart bool   `yaml:"seed_on_start"`

	MaxAttempts          int    `yaml:"max_attempts"`
	CaseRefPrefix        string `yaml:"case_ref_prefix"`
	OrderCacheTTLSeconds int    `yaml:"order_cache_ttl_seconds"`
	EventsEnabled        bool   `yaml:"events_enabled"`

	ChatHTTPAddr              string `yaml:"chat_http_addr"`
	GRPCAddr                  string `yaml:"grpc_addr"`
	SessionIdleSeconds        int    `yaml:"session_idle_seconds"`
	SessionRateLimitPerMinute int    `yaml:"session_rate_limit_per_minute"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	WorkerHTTPAddr      string `yaml:"worker_http_addr"`
	WorkerConsumerGroup string `yaml:"worker_consumer_group"`

	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}

// PostgresConnString собирает DSN для pgxpool; sslmode по умолчанию disable.
func (c *Config) PostgresConnString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.Username, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.DBName, sslMode)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) KafkaBrokers() []string {
	return []string{fmt.Sprintf("%s:%d", c.Kafka.Host, c.Kafka.Port)}
}

func (c *Config) EventsTopic() string {
	if c.Kafka.AssistantEventsTopicName == "" {
		return "assistant.events"
	}
	return c.Kafka.AssistantEventsTopicName
}

// SlogLevel maps log_level to a slog level, falling back to def for empty or unknown values.
func (a AssistantConfig) SlogLevel(def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}
