// Package app wires configuration, storage, synthesis backends, and the HTTP
// server into a runnable service.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/config"
	"github.com/gning/tts-bot/internal/httpapi"
	"github.com/gning/tts-bot/internal/observability"
	"github.com/gning/tts-bot/internal/pipeline"
	"github.com/gning/tts-bot/internal/settings"
	"github.com/gning/tts-bot/internal/synth"
)

type BuildResult struct {
	Config   config.Config
	API      *httpapi.Server
	Pipeline *pipeline.Pipeline
	Store    settings.Store
	Metrics  *observability.Metrics
	Backends map[synth.Backend]synth.Synthesizer

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*BuildResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	store, err := settings.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("settings store init failed: %w", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Info("settings store: in-memory (DATABASE_URL not set)")
	} else {
		logger.Info("settings store: postgres")
	}

	backends := buildBackends(cfg, logger)

	pipe := pipeline.New(backends, pipeline.Config{
		MaxChunkSize:         cfg.MaxChunkSize,
		OverallMaxTextLength: cfg.OverallMaxTextLength,
	}, metrics, logger)

	api := httpapi.New(cfg, pipe, store, metrics, logger)

	cleanup := func() error {
		if err := store.Close(); err != nil {
			return fmt.Errorf("settings store close: %w", err)
		}
		return nil
	}

	return &BuildResult{
		Config:   cfg,
		API:      api,
		Pipeline: pipe,
		Store:    store,
		Metrics:  metrics,
		Backends: backends,
		Cleanup:  cleanup,
	}, nil
}

// buildBackends wires a synthesizer per backend. When no credentials are set
// at all, keyless dev runs get the mock so the API stays usable.
func buildBackends(cfg config.Config, logger *zap.Logger) map[synth.Backend]synth.Synthesizer {
	backends := make(map[synth.Backend]synth.Synthesizer, 2)

	hasEleven := strings.TrimSpace(cfg.ElevenLabsAPIKey) != ""
	hasAzure := strings.TrimSpace(cfg.AzureSpeechKey) != ""

	if !hasEleven && !hasAzure {
		logger.Warn("no backend credentials set, using mock synthesizer")
		mock := synth.NewMockSynthesizer()
		backends[synth.BackendElevenLabs] = mock
		backends[synth.BackendAzure] = mock
		return backends
	}

	backends[synth.BackendElevenLabs] = synth.NewElevenLabsClient(synth.ElevenLabsConfig{
		APIKey:          cfg.ElevenLabsAPIKey,
		ModelID:         cfg.ElevenLabsModelID,
		Stability:       cfg.ElevenLabsStability,
		SimilarityBoost: cfg.ElevenLabsSimilarity,
		StagingDir:      cfg.SynthesisStagingDir,
	}, logger)
	backends[synth.BackendAzure] = synth.NewAzureClient(synth.AzureConfig{
		Key:        cfg.AzureSpeechKey,
		Region:     cfg.AzureSpeechRegion,
		Endpoint:   cfg.AzureSpeechURL,
		StagingDir: cfg.SynthesisStagingDir,
	}, logger)

	if hasEleven {
		logger.Info("backend configured", zap.String("backend", synth.BackendElevenLabs.String()))
	}
	if hasAzure {
		logger.Info("backend configured", zap.String("backend", synth.BackendAzure.String()))
	}
	return backends
}
