package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/gning/tts-bot/internal/synth"
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	if _, err := s.Get(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on unknown user error = %v, want ErrNotFound", err)
	}

	pref := Preference{
		Backend: synth.BackendAzure,
		Voices: map[synth.Backend]string{
			synth.BackendAzure:      "en-GB-ThomasNeural",
			synth.BackendElevenLabs: "EXAVITQu4vr4xnSDxMaL",
		},
	}
	if err := s.Put(ctx, "u1", pref); err != nil {
		t.Fatalf("Put() unexpected error = %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	if got.Backend != synth.BackendAzure {
		t.Fatalf("Get() backend = %v, want azure", got.Backend)
	}
	if got.Voice() != "en-GB-ThomasNeural" {
		t.Fatalf("Voice() = %q, want azure voice", got.Voice())
	}
	if got.Voices[synth.BackendElevenLabs] != "EXAVITQu4vr4xnSDxMaL" {
		t.Fatalf("stored elevenlabs voice lost across backend switch")
	}
}

func TestInMemoryStoreIsolatesStoredCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	pref := Preference{Backend: synth.BackendElevenLabs, Voices: map[synth.Backend]string{synth.BackendElevenLabs: "v1"}}
	if err := s.Put(ctx, "u1", pref); err != nil {
		t.Fatalf("Put() unexpected error = %v", err)
	}

	pref.Voices[synth.BackendElevenLabs] = "mutated"
	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() unexpected error = %v", err)
	}
	if got.Voice() != "v1" {
		t.Fatalf("stored preference mutated through caller map, Voice() = %q", got.Voice())
	}

	got.Voices[synth.BackendElevenLabs] = "mutated-again"
	again, _ := s.Get(ctx, "u1")
	if again.Voice() != "v1" {
		t.Fatalf("stored preference mutated through returned map")
	}
}

func TestFactoryDefaultsToInMemory(t *testing.T) {
	s, err := NewStore(context.Background(), "  ")
	if err != nil {
		t.Fatalf("NewStore() unexpected error = %v", err)
	}
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("NewStore() without DATABASE_URL = %T, want *InMemoryStore", s)
	}
}
