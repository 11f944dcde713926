// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config contains all runtime settings for the speech service.
type Config struct {
	BindAddr         string        `env:"APP_BIND_ADDR" envDefault:":8080"`
	ShutdownTimeout  time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MetricsNamespace string        `env:"APP_METRICS_NAMESPACE" envDefault:"ttsbot"`
	AllowAnyOrigin   bool          `env:"APP_ALLOW_ANY_ORIGIN" envDefault:"false"`

	// Operating constants of the segment pipeline.
	MaxChunkSize         int `env:"APP_MAX_CHUNK_SIZE" envDefault:"4000"`
	OverallMaxTextLength int `env:"APP_MAX_TEXT_LENGTH" envDefault:"200000"`

	// Default backend used for users with no stored preference.
	DefaultBackend string `env:"APP_DEFAULT_BACKEND" envDefault:"elevenlabs"`

	ElevenLabsAPIKey     string  `env:"ELEVEN_LABS_API_KEY"`
	ElevenLabsVoiceID    string  `env:"ELEVEN_LABS_VOICE_ID" envDefault:"EXAVITQu4vr4xnSDxMaL"`
	ElevenLabsModelID    string  `env:"ELEVEN_LABS_MODEL_ID" envDefault:"eleven_monolingual_v1"`
	ElevenLabsStability  float64 `env:"ELEVEN_LABS_STABILITY" envDefault:"0.5"`
	ElevenLabsSimilarity float64 `env:"ELEVEN_LABS_SIMILARITY_BOOST" envDefault:"0.5"`
	AzureSpeechKey       string  `env:"AZURE_SPEECH_KEY"`
	AzureSpeechRegion    string  `env:"AZURE_SPEECH_REGION"`
	AzureSpeechURL       string  `env:"AZURE_SPEECH_URL"`
	AzureSpeechVoiceName string  `env:"AZURE_SPEECH_VOICE_NAME" envDefault:"en-US-JennyNeural"`
	SynthesisStagingDir  string  `env:"APP_STAGING_DIR"`
	DatabaseURL          string  `env:"DATABASE_URL"`
}

// Load reads the optional .env file, then the environment, and validates the
// result.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("APP_MAX_CHUNK_SIZE must be positive")
	}
	if c.OverallMaxTextLength < c.MaxChunkSize {
		return fmt.Errorf("APP_MAX_TEXT_LENGTH must be at least APP_MAX_CHUNK_SIZE")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.DefaultBackend {
	case "elevenlabs", "azure":
	default:
		return fmt.Errorf("APP_DEFAULT_BACKEND must be elevenlabs or azure, got %q", c.DefaultBackend)
	}
	return nil
}
