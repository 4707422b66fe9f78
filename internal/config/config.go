package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/developerkunal/versioner/internal/resolver"
)

const (
	// RCFile is picked up from the working directory when no config path is given.
	RCFile    = ".versionerrc.yaml"
	EnvPrefix = "VERSIONER"
)

// Prompt front ends.
const (
	UILine = "line"
	UITUI  = "tui"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

type Config struct {
	Root        string `yaml:"root" json:"root" mapstructure:"root"`
	File        string `yaml:"file" json:"file" mapstructure:"file"`
	Prompt      bool   `yaml:"prompt" json:"prompt" mapstructure:"prompt"`
	UI          string `yaml:"ui" json:"ui" mapstructure:"ui"`                               // "line" or "tui"
	MaxAttempts int    `yaml:"max_attempts" json:"max_attempts" mapstructure:"max_attempts"` // 0 keeps asking
	Output      string `yaml:"output" json:"output" mapstructure:"output"`                   // "text", "json", "yaml"
	LogLevel    string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
}

// Defaults returns a Config with all default values.
func Defaults() Config {
	return Config{
		Root:     resolver.DefaultRoot,
		File:     resolver.DefaultFile,
		Prompt:   true,
		UI:       UILine,
		Output:   OutputText,
		LogLevel: "warn",
	}
}

// Options converts the config into resolver options.
func (c *Config) Options() resolver.Options {
	return resolver.Options{
		Root:   c.Root,
		File:   c.File,
		Prompt: c.Prompt,
	}
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	switch c.UI {
	case UILine, UITUI:
	default:
		return fmt.Errorf("invalid ui %q (must be line or tui)", c.UI)
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("invalid output %q (must be text, json, or yaml)", c.Output)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("invalid max_attempts %d (must be 0 or more)", c.MaxAttempts)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// LoadConfig loads config from file (YAML) and the environment (VERSIONER_*).
// If noConfig is true, config files are ignored. CLI flag overrides are applied
// by the caller.
func LoadConfig(configPath string, noConfig bool) (*Config, error) {
	cfg := Defaults()

	if !noConfig {
		// 1. Load from file if provided
		if configPath != "" {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", configPath, err)
			}
		}

		// 2. Load from .versionerrc.yaml if present and not already loaded
		if configPath == "" {
			if data, err := os.ReadFile(RCFile); err == nil {
				if err := yaml.Unmarshal(data, &cfg); err != nil {
					return nil, fmt.Errorf("parsing %s: %w", RCFile, err)
				}
			}
		}
	}

	// 3. Override with environment
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v, cfg)

	decoderOpt := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToBasicTypeHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decoderOpt); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return &cfg, nil
}

func setViperDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("root", cfg.Root)
	v.SetDefault("file", cfg.File)
	v.SetDefault("prompt", cfg.Prompt)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("max_attempts", cfg.MaxAttempts)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("log_level", cfg.LogLevel)
}
