package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.MaxChunkSize != 4000 {
		t.Fatalf("MaxChunkSize = %d, want 4000", cfg.MaxChunkSize)
	}
	if cfg.OverallMaxTextLength != 200000 {
		t.Fatalf("OverallMaxTextLength = %d, want 200000", cfg.OverallMaxTextLength)
	}
	if cfg.DefaultBackend != "elevenlabs" {
		t.Fatalf("DefaultBackend = %q, want %q", cfg.DefaultBackend, "elevenlabs")
	}
	if cfg.ElevenLabsVoiceID != "EXAVITQu4vr4xnSDxMaL" {
		t.Fatalf("ElevenLabsVoiceID = %q", cfg.ElevenLabsVoiceID)
	}
	if cfg.AzureSpeechVoiceName != "en-US-JennyNeural" {
		t.Fatalf("AzureSpeechVoiceName = %q", cfg.AzureSpeechVoiceName)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout = %v, want 15s", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_MAX_CHUNK_SIZE", "2500")
	t.Setenv("APP_DEFAULT_BACKEND", "azure")
	t.Setenv("ELEVEN_LABS_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxChunkSize != 2500 {
		t.Fatalf("MaxChunkSize = %d, want 2500", cfg.MaxChunkSize)
	}
	if cfg.DefaultBackend != "azure" {
		t.Fatalf("DefaultBackend = %q, want azure", cfg.DefaultBackend)
	}
	if cfg.ElevenLabsAPIKey != "k" {
		t.Fatalf("ElevenLabsAPIKey = %q, want k", cfg.ElevenLabsAPIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero chunk size", func(c *Config) { c.MaxChunkSize = 0 }, true},
		{"cap below chunk size", func(c *Config) { c.OverallMaxTextLength = c.MaxChunkSize - 1 }, true},
		{"unknown backend", func(c *Config) { c.DefaultBackend = "polly" }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				MaxChunkSize:         4000,
				OverallMaxTextLength: 200000,
				ShutdownTimeout:      15 * time.Second,
				DefaultBackend:       "elevenlabs",
			}
			tt.mutate(&cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
