package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `yaml:"port" mapstructure:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" mapstructure:"max_header_bytes" envconfig:"SERVER_MAX_HEADER_BYTES"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" mapstructure:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" mapstructure:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `yaml:"name" mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret" mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `yaml:"expiry_hours" mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

type RedisConfig struct {
	URL string `yaml:"url" mapstructure:"url" envconfig:"REDIS_URL"`
}

type AuditConfig struct {
	Key    string `yaml:"key" mapstructure:"key" envconfig:"AUDIT_KEY"`
	Buffer int    `yaml:"buffer" mapstructure:"buffer" envconfig:"AUDIT_BUFFER"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled" envconfig:"RATELIMIT_ENABLED"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" envconfig:"RATELIMIT_RPS"`
	Burst             int     `yaml:"burst" mapstructure:"burst" envconfig:"RATELIMIT_BURST"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	JWT       JWTConfig       `yaml:"jwt" mapstructure:"jwt"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// LoadConfig reads config.yml from the usual locations, then lets
// environment variables override individual values. A missing file is not
// an error; everything can come from the environment.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	config := defaults()

	if err := viper.ReadInConfig(); err == nil {
		if err := viper.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "clinic",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			ExpiryHours: 24,
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		Audit: AuditConfig{
			Key:    "clinic:audit",
			Buffer: 256,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}
