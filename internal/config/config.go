// Package config handles application configuration using Viper: YAML file,
// environment variables, and defaults, merged in priority order and
// unmarshaled into structs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Judge     JudgeConfig     `mapstructure:"judge"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProvidersConfig carries one credential block per vendor. A provider with an
// empty key (or, for Azure, an empty endpoint) is simply not registered.
type ProvidersConfig struct {
	OpenAI     KeyedProvider `mapstructure:"openai"`
	Anthropic  KeyedProvider `mapstructure:"anthropic"`
	Gemini     KeyedProvider `mapstructure:"gemini"`
	Perplexity KeyedProvider `mapstructure:"perplexity"`
	Azure      AzureProvider `mapstructure:"azure"`
}

// KeyedProvider is the bearer-token / API-key-header credential shape.
// BaseURL is optional and exists mainly for tests and self-hosted gateways.
type KeyedProvider struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	RatePerMinute int    `mapstructure:"rate_per_minute"`
}

// AzureProvider is the endpoint+key credential shape used by Azure OpenAI.
type AzureProvider struct {
	Endpoint      string `mapstructure:"endpoint"`
	APIKey        string `mapstructure:"api_key"`
	RatePerMinute int    `mapstructure:"rate_per_minute"`
}

type EngineConfig struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	TaskTimeout    time.Duration `mapstructure:"task_timeout"`
}

// JudgeConfig selects the secondary extraction pass. Disabled, extraction
// uses deterministic text rules only.
type JudgeConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/brandprobe.db")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("providers.openai.rate_per_minute", 20)
	v.SetDefault("providers.anthropic.rate_per_minute", 20)
	v.SetDefault("providers.gemini.rate_per_minute", 20)
	v.SetDefault("providers.perplexity.rate_per_minute", 20)
	v.SetDefault("providers.azure.rate_per_minute", 20)
	v.SetDefault("engine.max_concurrency", 3)
	v.SetDefault("engine.task_timeout", "90s")
	v.SetDefault("judge.enabled", false)
	v.SetDefault("judge.provider", "openai")
	v.SetDefault("judge.model", "gpt-4o-mini")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// A missing config file is fine — defaults + env are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// BRANDPROBE_ prefix + nested keys: BRANDPROBE_SERVER_PORT=9090 → server.port
	v.SetEnvPrefix("BRANDPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
