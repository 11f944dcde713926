package synth

import (
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stream interrupted") }

func TestStageAudioRoundTripsAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	data, err := stageAudio(dir, strings.NewReader("abc123"))
	if err != nil {
		t.Fatalf("stageAudio() unexpected error = %v", err)
	}
	if string(data) != "abc123" {
		t.Fatalf("stageAudio() = %q, want %q", data, "abc123")
	}
	assertStagingEmpty(t, dir)
}

func TestStageAudioCleansUpOnReadFailure(t *testing.T) {
	dir := t.TempDir()
	if _, err := stageAudio(dir, failingReader{}); err == nil {
		t.Fatalf("stageAudio() expected error from failing reader")
	}
	assertStagingEmpty(t, dir)
}

func TestSynthErrorClassification(t *testing.T) {
	cfgErr := &Error{Kind: FailureConfig, Backend: BackendAzure, Message: "no key"}
	provErr := &Error{Kind: FailureProvider, Backend: BackendElevenLabs, Message: "status 500"}

	if !IsConfigError(cfgErr) || IsProviderError(cfgErr) {
		t.Fatalf("config error misclassified")
	}
	if !IsProviderError(provErr) || IsConfigError(provErr) {
		t.Fatalf("provider error misclassified")
	}
	if IsConfigError(errors.New("plain")) || IsProviderError(errors.New("plain")) {
		t.Fatalf("plain error misclassified as synthesis failure")
	}
}

func TestParseBackend(t *testing.T) {
	cases := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "elevenlabs", want: BackendElevenLabs},
		{in: "azure", want: BackendAzure},
		{in: "polly", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseBackend(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseBackend(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBackend(%q) unexpected error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseBackend(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
