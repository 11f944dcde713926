package protocol

import (
	"errors"
	"testing"
)

func TestParseClientMessageSpeak(t *testing.T) {
	raw := []byte(`{"type":"client_speak","user_id":"u1","text":"hello there"}`)

	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	speak, ok := msg.(ClientSpeak)
	if !ok {
		t.Fatalf("ParseClientMessage() = %T, want ClientSpeak", msg)
	}
	if speak.UserID != "u1" || speak.Text != "hello there" {
		t.Fatalf("ClientSpeak = %+v", speak)
	}
}

func TestParseClientMessageSettings(t *testing.T) {
	raw := []byte(`{"type":"client_settings","user_id":"u1","backend":"azure","voice":"en-US-GuyNeural"}`)

	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}
	set, ok := msg.(ClientSettings)
	if !ok {
		t.Fatalf("ParseClientMessage() = %T, want ClientSettings", msg)
	}
	if set.Backend != "azure" || set.Voice != "en-US-GuyNeural" {
		t.Fatalf("ClientSettings = %+v", set)
	}
}

func TestParseClientMessageInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad json", `{`},
		{"speak without text", `{"type":"client_speak","user_id":"u1"}`},
		{"speak without user", `{"type":"client_speak","text":"hi"}`},
		{"settings without fields", `{"type":"client_settings","user_id":"u1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseClientMessage([]byte(tt.raw)); err == nil {
				t.Fatalf("ParseClientMessage(%q) expected error", tt.raw)
			}
		})
	}
}

func TestParseClientMessageUnsupported(t *testing.T) {
	raw := []byte(`{"type":"segment_audio","job_id":"j1"}`)

	_, err := ParseClientMessage(raw)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("ParseClientMessage() error = %v, want ErrUnsupportedType", err)
	}
}
