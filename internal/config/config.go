// Package config resolves runtime settings from an optional YAML file, the
// environment (after loading .env), and defaults. It is read once at startup.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/colindelotavo/chatgpt-cli/internal/provider"
)

// Config is the resolved process configuration.
type Config struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	SystemPrompt string `yaml:"system_prompt"`
	LogLevel     string `yaml:"log_level"`

	OpenAIKey    string `yaml:"-"`
	AnthropicKey string `yaml:"-"`
}

// LoadDotenv reads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves configuration. path names an optional YAML file; when empty,
// CHATGPT_CONFIG is consulted. Environment variables override file values.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CHATGPT_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	override(&cfg.Provider, "CHATGPT_PROVIDER")
	override(&cfg.Model, "CHATGPT_MODEL")
	override(&cfg.BaseURL, "CHATGPT_BASE_URL")
	override(&cfg.SystemPrompt, "CHATGPT_SYSTEM_PROMPT")
	override(&cfg.LogLevel, "CHATGPT_LOG_LEVEL")
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")

	if cfg.Provider == "" {
		cfg.Provider = provider.NameOpenAI
	}
	if cfg.Model == "" {
		cfg.Model = provider.DefaultModel(cfg.Provider)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate rejects unknown providers.
func (c Config) Validate() error {
	switch c.Provider {
	case provider.NameOpenAI, provider.NameAnthropic:
		return nil
	default:
		return fmt.Errorf("config: unknown provider %q (want %q or %q)", c.Provider, provider.NameOpenAI, provider.NameAnthropic)
	}
}

// APIKey returns the key for the selected provider.
func (c Config) APIKey() string {
	if c.Provider == provider.NameAnthropic {
		return c.AnthropicKey
	}
	return c.OpenAIKey
}

// APIKeyEnv names the environment variable APIKey reads.
func (c Config) APIKeyEnv() string {
	if c.Provider == provider.NameAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// ProviderSettings builds the backend settings for this configuration.
func (c Config) ProviderSettings() provider.Settings {
	return provider.Settings{
		Name:    c.Provider,
		APIKey:  c.APIKey(),
		BaseURL: c.BaseURL,
	}
}
