package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/reliability"
)

// ElevenLabsConfig configures the streaming ElevenLabs backend.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	ModelID string
	// Voice settings forwarded verbatim to the provider.
	Stability       float64
	SimilarityBoost float64
	StagingDir      string
	HTTPClient      *http.Client
}

// ElevenLabsClient synthesizes speech through the ElevenLabs streaming
// endpoint in a single HTTP call per segment. There is no in-core retry.
type ElevenLabsClient struct {
	cfg  ElevenLabsConfig
	http *http.Client
	log  *zap.Logger
}

func NewElevenLabsClient(cfg ElevenLabsConfig, log *zap.Logger) *ElevenLabsClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "eleven_monolingual_v1"
	}
	if cfg.Stability <= 0 {
		cfg.Stability = 0.5
	}
	if cfg.SimilarityBoost <= 0 {
		cfg.SimilarityBoost = 0.5
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ElevenLabsClient{cfg: cfg, http: client, log: log}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, &Error{Kind: FailureConfig, Backend: BackendElevenLabs, Message: "API key is not configured"}
	}
	if strings.TrimSpace(voice) == "" {
		return nil, &Error{Kind: FailureConfig, Backend: BackendElevenLabs, Message: "voice id is empty"}
	}

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": c.cfg.ModelID,
		"voice_settings": map[string]any{
			"stability":        c.cfg.Stability,
			"similarity_boost": c.cfg.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, &Error{Kind: FailureProvider, Backend: BackendElevenLabs, Message: err.Error()}
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(voice) + "/stream"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: FailureProvider, Backend: BackendElevenLabs, Message: err.Error()}
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: FailureProvider, Backend: BackendElevenLabs, Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.log.Warn("elevenlabs synthesis failed",
			zap.Int("status", res.StatusCode),
			zap.Bool("retryable", reliability.IsRetryableHTTPStatus(res.StatusCode)),
		)
		return nil, &Error{
			Kind:    FailureProvider,
			Backend: BackendElevenLabs,
			Message: fmt.Sprintf("status %d: %s", res.StatusCode, strings.TrimSpace(string(detail))),
		}
	}

	audio, err := stageAudio(c.cfg.StagingDir, res.Body)
	if err != nil {
		return nil, &Error{Kind: FailureProvider, Backend: BackendElevenLabs, Message: err.Error()}
	}
	return audio, nil
}
