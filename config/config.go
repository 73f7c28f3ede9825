// Package config loads runtime configuration from an optional YAML file and
// THINKACT_ prefixed environment variables. Environment values override the
// file, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/thinkact/logging"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "THINKACT_"

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCompat    = "compat"
)

// Providers lists the accepted provider names.
var Providers = []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderCompat}

// Config holds the settings needed to build a model transport and an agent.
type Config struct {
	Name                 string  `yaml:"name" env:"NAME"`
	Provider             string  `yaml:"provider" env:"PROVIDER"`
	Engine               string  `yaml:"engine" env:"ENGINE"`
	APIKey               string  `yaml:"api-key" env:"API_KEY"`
	BaseURL              string  `yaml:"base-url" env:"BASE_URL"`
	Temperature          float64 `yaml:"temperature" env:"TEMPERATURE"`
	MaxTokens            int64   `yaml:"max-tokens" env:"MAX_TOKENS"`
	MaxToolIterations    int     `yaml:"max-tool-iterations" env:"MAX_TOOL_ITERATIONS"`
	SurfacePlainMessages bool    `yaml:"surface-plain-messages" env:"SURFACE_PLAIN_MESSAGES"`
	RepairArguments      bool    `yaml:"repair-arguments" env:"REPAIR_ARGUMENTS"`
	Prompt               string  `yaml:"prompt" env:"PROMPT"`
	LogLevel             string  `yaml:"log-level" env:"LOG_LEVEL"`
	LogFormat            string  `yaml:"log-format" env:"LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Name:              "Assistant",
		Provider:          ProviderOpenAI,
		Temperature:       1.0,
		MaxToolIterations: 10,
		Prompt:            "You are {{.name}}, a helpful assistant. Use the available functions when they help.",
		LogLevel:          "warn",
		LogFormat:         "text",
	}
}

// Load reads the YAML file at path (a missing file is not an error, an empty
// path skips the file), applies environment overrides and validates the
// result.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(content, &c); err != nil {
				return c, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("parse environment: %w", err)
	}

	if err := c.Validate(); err != nil {
		return c, err
	}

	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("config: name must not be empty")
	}
	if !slices.Contains(Providers, c.Provider) {
		return fmt.Errorf("config: unknown provider %q (want one of %s)", c.Provider, strings.Join(Providers, ", "))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config: max-tokens must not be negative")
	}
	if c.MaxToolIterations < 0 {
		return fmt.Errorf("config: max-tool-iterations must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if f := strings.ToLower(c.LogFormat); f != "" && f != "text" && f != "json" {
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
