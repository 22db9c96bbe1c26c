package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port          string        `yaml:"port"`
	DatabaseURL   string        `yaml:"database_url"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	DefaultAPIKey string        `yaml:"-"`
	LLM           LLMConfig     `yaml:"llm"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

// Default returns the settings the chatbot runs with when nothing is configured.
func Default() *Config {
	return &Config{
		Port:       "8501",
		SessionTTL: 2 * time.Hour,
		LLM: LLMConfig{
			Provider:    ProviderGoogleAI,
			Model:       "gemini-2.5-flash",
			Temperature: 0.5,
		},
	}
}

// Load reads .env, then the optional YAML file at path, then environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] Failed to load .env file: %v", err)
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DEFAULT_API_KEY"); v != "" {
		cfg.DefaultAPIKey = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid LLM_TEMPERATURE %q: %w", v, err)
		}
		cfg.LLM.Temperature = t
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = ttl
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGoogleAI, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM provider %q", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("LLM model cannot be empty")
	}

	if maxTemp := maxTemperature(c.LLM.Provider); c.LLM.Temperature < 0 || c.LLM.Temperature > maxTemp {
		return fmt.Errorf("LLM temperature for %s must be between 0 and %v, got %v", c.LLM.Provider, maxTemp, c.LLM.Temperature)
	}

	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	return nil
}

// maxTemperature is the upper bound each provider's API accepts.
func maxTemperature(provider string) float64 {
	if provider == ProviderAnthropic {
		return 1
	}
	return 2
}
