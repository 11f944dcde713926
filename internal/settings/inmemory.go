package settings

import (
	"context"
	"sync"

	"github.com/gning/tts-bot/internal/synth"
)

// InMemoryStore is a simple in-process store for local/dev use.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preference
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[string]Preference)}
}

func (s *InMemoryStore) Get(_ context.Context, userID string) (Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pref, ok := s.prefs[userID]
	if !ok {
		return Preference{}, ErrNotFound
	}
	return clonePref(pref), nil
}

func (s *InMemoryStore) Put(_ context.Context, userID string, pref Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = clonePref(pref)
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

func clonePref(p Preference) Preference {
	out := Preference{Backend: p.Backend, Voices: make(map[synth.Backend]string, len(p.Voices))}
	for k, v := range p.Voices {
		out.Voices[k] = v
	}
	return out
}
