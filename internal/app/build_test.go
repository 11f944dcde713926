package app

import (
	"context"
	"testing"
	"time"

	"github.com/gning/tts-bot/internal/config"
	"github.com/gning/tts-bot/internal/synth"
)

func TestBuildKeylessUsesMock(t *testing.T) {
	cfg := config.Config{
		MetricsNamespace:     "test_app_build",
		MaxChunkSize:         4000,
		OverallMaxTextLength: 200000,
		ShutdownTimeout:      15 * time.Second,
		DefaultBackend:       "elevenlabs",
	}

	result, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer result.Cleanup()

	if len(result.Backends) != 2 {
		t.Fatalf("len(Backends) = %d, want 2", len(result.Backends))
	}
	if _, ok := result.Backends[synth.BackendElevenLabs].(*synth.MockSynthesizer); !ok {
		t.Fatalf("elevenlabs backend = %T, want mock", result.Backends[synth.BackendElevenLabs])
	}
	if result.API == nil || result.Pipeline == nil || result.Store == nil {
		t.Fatalf("incomplete build result: %+v", result)
	}
}

func TestBuildWithCredentials(t *testing.T) {
	cfg := config.Config{
		MetricsNamespace:     "test_app_build_creds",
		MaxChunkSize:         4000,
		OverallMaxTextLength: 200000,
		ShutdownTimeout:      15 * time.Second,
		DefaultBackend:       "azure",
		ElevenLabsAPIKey:     "k",
		AzureSpeechRegion:    "westeurope",
		AzureSpeechKey:       "k2",
	}

	result, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer result.Cleanup()

	if _, ok := result.Backends[synth.BackendElevenLabs].(*synth.ElevenLabsClient); !ok {
		t.Fatalf("elevenlabs backend = %T, want real client", result.Backends[synth.BackendElevenLabs])
	}
	if _, ok := result.Backends[synth.BackendAzure].(*synth.AzureClient); !ok {
		t.Fatalf("azure backend = %T, want real client", result.Backends[synth.BackendAzure])
	}
}
