package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level application configuration
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Storage       StorageConfig       `toml:"storage"`
	OpenAI        OpenAIConfig        `toml:"openai"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Extraction    ExtractionConfig    `toml:"extraction"`
	Pipeline      PipelineConfig      `toml:"pipeline"`
	Logging       LoggingConfig       `toml:"logging"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// StorageConfig represents the storage configuration
type StorageConfig struct {
	DBPath     string `toml:"db_path"`
	UploadsDir string `toml:"uploads_dir"`
}

// OpenAIConfig holds the shared OpenAI credentials.
// The OPENAI_API_KEY environment variable takes precedence over the file.
type OpenAIConfig struct {
	APIKey string `toml:"api_key"`
}

// TranscriptionConfig represents the speech-to-text provider configuration
type TranscriptionConfig struct {
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ExtractionConfig represents the LLM extraction provider configuration
type ExtractionConfig struct {
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PipelineConfig represents the background job pipeline configuration
type PipelineConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8000,
			CORSAllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			DBPath:     "db_data/fluent_notes.db",
			UploadsDir: "uploads",
		},
		Transcription: TranscriptionConfig{
			Model:          "whisper-1",
			Language:       "",
			TimeoutSeconds: 300,
		},
		Extraction: ExtractionConfig{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
		},
		Pipeline: PipelineConfig{
			Workers:   2,
			QueueSize: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads the configuration from the given TOML file. A missing file is
// not an error; defaults apply, with the environment still consulted for
// the API key.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}

	return config, nil
}
