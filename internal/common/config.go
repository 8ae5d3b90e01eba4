package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/sahamlabs/emiten/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Auth        AuthConfig      `toml:"auth"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Reference   ReferenceConfig `toml:"reference"`
	Metadata    MetadataConfig  `toml:"metadata"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
	LLM         LLMConfig       `toml:"llm"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// AuthConfig holds the static API key checked on mutating routes.
type AuthConfig struct {
	APIKey string `toml:"api_key"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ReferenceConfig points at the static lookup data (sector map, company
// directory) and controls how often it is re-read.
type ReferenceConfig struct {
	SectorsFile     string `toml:"sectors_file"`     // TOML file mapping sub-sector -> sector
	CompaniesFile   string `toml:"companies_file"`   // JSON file with the company directory
	RefreshSchedule string `toml:"refresh_schedule"` // Cron schedule, e.g. "0 3 * * *"
}

// MetadataConfig controls article metadata scraping.
type MetadataConfig struct {
	UserAgent      string  `toml:"user_agent"`
	RequestTimeout string  `toml:"request_timeout"` // e.g. "15s"
	RatePerSecond  float64 `toml:"rate_per_second"` // outbound fetch rate limit
}

type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"`
}

type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"`
}

// LLMConfig selects provider order for the fallback collection.
type LLMConfig struct {
	Providers     []string `toml:"providers"`       // ordered, e.g. ["claude", "gemini"]
	RatePerMinute float64  `toml:"rate_per_minute"` // outbound request rate limit
}

// DefaultConfig returns the built-in defaults applied before any file or
// environment override.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/emiten.db",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Reference: ReferenceConfig{
			SectorsFile:     "./data/sectors.toml",
			CompaniesFile:   "./data/companies.json",
			RefreshSchedule: "0 3 * * *",
		},
		Metadata: MetadataConfig{
			UserAgent:      "emiten/1.0",
			RequestTimeout: "15s",
			RatePerSecond:  1,
		},
		Claude: ClaudeConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 2048,
			Timeout:   "60s",
		},
		Gemini: GeminiConfig{
			Model:     "gemini-2.0-flash",
			MaxTokens: 2048,
			Timeout:   "60s",
		},
		LLM: LLMConfig{
			Providers:     []string{"claude", "gemini"},
			RatePerMinute: 30,
		},
	}
}

// LoadConfig loads configuration: defaults -> optional TOML file -> env.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	return config, nil
}

// applyEnvOverrides applies EMITEN_* environment variables on top of the
// file values. API keys can also come from the provider-native variables.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("EMITEN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("EMITEN_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("EMITEN_API_KEY"); v != "" {
		config.Auth.APIKey = v
	}
	if v := os.Getenv("EMITEN_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("EMITEN_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.Gemini.APIKey == "" {
		config.Gemini.APIKey = v
	}
}

// ResolveAPIKey returns the API key for a provider, preferring a value in
// the key/value store ("anthropic_api_key", "gemini_api_key") over the
// config/env fallback. Stored keys can be rotated without a restart.
func ResolveAPIKey(kv interfaces.KeyValueStorage, name, configFallback string) string {
	if kv != nil {
		if v, err := kv.Get(name); err == nil && v != "" {
			return v
		}
	}
	return configFallback
}
