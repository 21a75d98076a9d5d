// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Base URL the front end uses to reach this API. Used for the CORS
	// allow-origin header when the UI is served from a separate origin.
	PublicBaseURL string

	// AI provider settings
	AIProvider string // "openai", "gemini", "claude", "mistral"

	OpenAIKey         string
	OpenAIModel       string
	OpenAIVisionModel string
	OpenAIBaseURL     string

	GeminiKey         string
	GeminiModel       string
	GeminiVisionModel string
	GeminiBaseURL     string

	ClaudeKey         string
	ClaudeModel       string
	ClaudeVisionModel string
	ClaudeBaseURL     string

	MistralKey         string
	MistralModel       string
	MistralVisionModel string
	MistralBaseURL     string

	// Path of the JSON file backing the aesthetic store.
	DataFile string

	// Valkey (Redis-compatible) transform cache. Optional — an empty host
	// disables caching entirely.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Concurrency ceiling for batched image/url description fan-out.
	FanoutLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "5000"),
		Env:  envOrDefault("APP_ENV", "development"),

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),

		AIProvider: envOrDefault("AI_PROVIDER", "openai"),

		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIVisionModel: os.Getenv("OPENAI_VISION_MODEL"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),

		GeminiKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiVisionModel: os.Getenv("GEMINI_VISION_MODEL"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),

		ClaudeKey:         os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:       envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeVisionModel: os.Getenv("CLAUDE_VISION_MODEL"),
		ClaudeBaseURL:     os.Getenv("CLAUDE_BASE_URL"),

		MistralKey:         os.Getenv("MISTRAL_API_KEY"),
		MistralModel:       envOrDefault("MISTRAL_MODEL", "mistral-small-latest"),
		MistralVisionModel: envOrDefault("MISTRAL_VISION_MODEL", "pixtral-12b-latest"),
		MistralBaseURL:     os.Getenv("MISTRAL_BASE_URL"),

		DataFile: envOrDefault("DATA_FILE", "data/aesthetics.json"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		FanoutLimit: envOrDefaultInt("FANOUT_LIMIT", 3),
	}

	if cfg.FanoutLimit < 1 {
		return nil, fmt.Errorf("FANOUT_LIMIT must be at least 1")
	}

	if cfg.Env == "production" && cfg.APIKey() == "" {
		return nil, fmt.Errorf("no API key configured for provider %q in production", cfg.AIProvider)
	}

	return cfg, nil
}

// APIKey returns the credential for the active AI provider.
func (c *Config) APIKey() string {
	switch c.AIProvider {
	case "gemini":
		return c.GeminiKey
	case "claude":
		return c.ClaudeKey
	case "mistral":
		return c.MistralKey
	default:
		return c.OpenAIKey
	}
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable, returning a fallback
// if unset, empty, or not a valid integer.
func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
