package synth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestElevenLabsSynthesizeSuccess(t *testing.T) {
	staging := t.TempDir()
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("mp3-audio"))
	}))
	defer srv.Close()

	c := NewElevenLabsClient(ElevenLabsConfig{
		APIKey:     "secret",
		BaseURL:    srv.URL,
		StagingDir: staging,
	}, nil)

	audio, err := c.Synthesize(context.Background(), "read me aloud", "EXAVITQu4vr4xnSDxMaL")
	if err != nil {
		t.Fatalf("Synthesize() unexpected error = %v", err)
	}
	if string(audio) != "mp3-audio" {
		t.Fatalf("Synthesize() audio = %q, want %q", audio, "mp3-audio")
	}
	if want := "/v1/text-to-speech/EXAVITQu4vr4xnSDxMaL/stream"; gotPath != want {
		t.Fatalf("request path = %q, want %q", gotPath, want)
	}
	if gotKey != "secret" {
		t.Fatalf("xi-api-key = %q, want %q", gotKey, "secret")
	}
	if gotBody["text"] != "read me aloud" {
		t.Fatalf("request text = %v, want %q", gotBody["text"], "read me aloud")
	}
	if gotBody["model_id"] != "eleven_monolingual_v1" {
		t.Fatalf("request model_id = %v, want default model", gotBody["model_id"])
	}
	assertStagingEmpty(t, staging)
}

func TestElevenLabsNon200IsProviderError(t *testing.T) {
	staging := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewElevenLabsClient(ElevenLabsConfig{APIKey: "secret", BaseURL: srv.URL, StagingDir: staging}, nil)
	_, err := c.Synthesize(context.Background(), "hello", "voice-1")
	if !IsProviderError(err) {
		t.Fatalf("Synthesize() error = %v, want provider error", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error %q does not carry the provider diagnostic", err.Error())
	}
	assertStagingEmpty(t, staging)
}

func TestElevenLabsMissingKeyIsConfigErrorWithoutNetworkCall(t *testing.T) {
	transport := &countingTransport{responses: []func(*http.Request) (*http.Response, error){okResponse("audio")}}
	c := NewElevenLabsClient(ElevenLabsConfig{HTTPClient: &http.Client{Transport: transport}}, nil)

	_, err := c.Synthesize(context.Background(), "hello", "voice-1")
	if !IsConfigError(err) {
		t.Fatalf("Synthesize() error = %v, want config error", err)
	}
	if transport.calls != 0 {
		t.Fatalf("transport calls = %d, want 0", transport.calls)
	}
}

func TestElevenLabsEmptyVoiceIsConfigError(t *testing.T) {
	c := NewElevenLabsClient(ElevenLabsConfig{APIKey: "secret"}, nil)
	_, err := c.Synthesize(context.Background(), "hello", "  ")
	if !IsConfigError(err) {
		t.Fatalf("Synthesize() error = %v, want config error", err)
	}
}
