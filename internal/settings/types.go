// Package settings persists per-user speech preferences. The synthesis core
// only ever reads preferences; writes come from the settings endpoints.
package settings

import (
	"context"
	"errors"

	"github.com/gning/tts-bot/internal/synth"
)

// ErrNotFound is returned by Get when a user has never stored a preference.
// Callers fall back to configured defaults.
var ErrNotFound = errors.New("settings: user preference not found")

// Preference is one user's backend selection plus a voice per backend. Voices
// for backends other than the selected one are retained so switching back
// restores the previous choice.
type Preference struct {
	Backend synth.Backend
	Voices  map[synth.Backend]string
}

// Voice returns the stored voice for the selected backend, or "" when unset.
func (p Preference) Voice() string {
	return p.Voices[p.Backend]
}

// Store persists and retrieves user preferences.
type Store interface {
	Get(ctx context.Context, userID string) (Preference, error)
	Put(ctx context.Context, userID string, pref Preference) error
	Close() error
}
