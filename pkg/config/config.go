package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ElevenLabsConfig configures the sound-generation provider.
type ElevenLabsConfig struct {
	APIKey  string `json:"api_key" env:"ELEVENLABS_API_KEY"`
	APIBase string `json:"api_base" env:"SFX_MCP_API_BASE"`
}

// OutputConfig controls where generated files land when the caller gives
// no output_directory hint.
type OutputConfig struct {
	Dir string `json:"dir" env:"SFX_MCP_OUTPUT_DIR"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `json:"level" env:"SFX_MCP_LOG_LEVEL"`
	File  string `json:"file" env:"SFX_MCP_LOG_FILE"`
}

type Config struct {
	ElevenLabs ElevenLabsConfig `json:"elevenlabs"`
	Output     OutputConfig     `json:"output"`
	Log        LogConfig        `json:"log"`
}

// DefaultConfig returns the built-in defaults. The output directory is
// left empty here and falls back to the runtime paths default so that a
// config file can still override it.
func DefaultConfig() *Config {
	return &Config{
		ElevenLabs: ElevenLabsConfig{
			APIBase: "https://api.elevenlabs.io",
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// LoadConfig reads the config file at path if it exists, then applies
// environment variable overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasAPIKey reports whether a provider credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.ElevenLabs.APIKey) != ""
}
