package synth

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/reliability"
)

const (
	azureOutputFormat = "audio-16khz-128kbitrate-mono-mp3"
	azureUserAgent    = "tts-bot"

	// The primary path budgets 5s for the service to start producing audio,
	// matching the speech client's initial/end silence timeouts. The REST
	// fallback gets a hard 30s per call.
	azurePrimaryHeaderTimeout = 5 * time.Second
	azureRestTimeout          = 30 * time.Second
)

// AzureConfig configures the Azure speech backend. Either Region or Endpoint
// must be set. The primary attempt targets the region service; the REST
// fallback targets the custom Endpoint when one is configured.
type AzureConfig struct {
	Key        string
	Region     string
	Endpoint   string
	StagingDir string
	HTTPClient *http.Client
}

// AzureClient synthesizes speech against the Azure speech service, trying a
// primary call first and a REST fallback second. The two tiers are an explicit
// ordered attempt list evaluated until one succeeds or all are exhausted.
type AzureClient struct {
	cfg  AzureConfig
	http *http.Client
	log  *zap.Logger
}

type azureAttempt struct {
	name string
	run  func(ctx context.Context, ssml string) ([]byte, error)
}

func NewAzureClient(cfg AzureConfig, log *zap.Logger) *AzureClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AzureClient{cfg: cfg, http: client, log: log}
}

func (c *AzureClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.Key) == "" {
		return nil, &Error{Kind: FailureConfig, Backend: BackendAzure, Message: "speech key is not configured"}
	}
	if strings.TrimSpace(c.cfg.Region) == "" && strings.TrimSpace(c.cfg.Endpoint) == "" {
		return nil, &Error{Kind: FailureConfig, Backend: BackendAzure, Message: "either speech region or endpoint must be configured"}
	}
	if strings.TrimSpace(voice) == "" {
		return nil, &Error{Kind: FailureConfig, Backend: BackendAzure, Message: "voice name is empty"}
	}

	ssml := buildSSML(text, voice)
	attempts := []azureAttempt{
		{name: "sdk", run: func(ctx context.Context, ssml string) ([]byte, error) {
			return c.post(ctx, c.primaryURL(), ssml, azurePrimaryHeaderTimeout)
		}},
		{name: "rest", run: func(ctx context.Context, ssml string) ([]byte, error) {
			return c.post(ctx, c.fallbackURL(), ssml, azureRestTimeout)
		}},
	}

	var failures []string
	for _, a := range attempts {
		audio, err := a.run(ctx, ssml)
		if err == nil {
			return audio, nil
		}
		c.log.Warn("azure synthesis attempt failed", zap.String("attempt", a.name), zap.Error(err))
		failures = append(failures, fmt.Sprintf("%s: %v", a.name, err))
	}
	return nil, &Error{
		Kind:    FailureProvider,
		Backend: BackendAzure,
		Message: strings.Join(failures, "; "),
	}
}

func (c *AzureClient) post(ctx context.Context, url, ssml string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)
	req.Header.Set("User-Agent", azureUserAgent)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("status %d (retryable=%t): %s",
			res.StatusCode,
			reliability.IsRetryableHTTPStatus(res.StatusCode),
			strings.TrimSpace(string(detail)))
	}

	return stageAudio(c.cfg.StagingDir, res.Body)
}

// primaryURL is the region speech service; an endpoint-only configuration
// routes the primary attempt to the custom endpoint instead.
func (c *AzureClient) primaryURL() string {
	if strings.TrimSpace(c.cfg.Region) != "" {
		return c.regionURL()
	}
	return c.customURL()
}

// fallbackURL keeps the REST tier independent of the primary: it targets the
// custom endpoint when one is configured, else retries the region service.
func (c *AzureClient) fallbackURL() string {
	if strings.TrimSpace(c.cfg.Endpoint) != "" {
		return c.customURL()
	}
	return c.regionURL()
}

func (c *AzureClient) regionURL() string {
	return fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", strings.TrimSpace(c.cfg.Region))
}

func (c *AzureClient) customURL() string {
	return strings.TrimRight(strings.TrimSpace(c.cfg.Endpoint), "/") + "/cognitiveservices/v1"
}

// buildSSML wraps text in the minimal SSML envelope Azure requires, with the
// document language derived from the voice name prefix.
func buildSSML(text, voice string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(text))

	return fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s"><voice name="%s">%s</voice></speak>`,
		localeForVoice(voice), voice, escaped.String())
}

func localeForVoice(voice string) string {
	switch {
	case strings.HasPrefix(voice, "zh-"):
		return "zh-CN"
	case strings.HasPrefix(voice, "en-GB"):
		return "en-GB"
	default:
		return "en-US"
	}
}
