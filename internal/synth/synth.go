// Package synth abstracts cloud text-to-speech backends behind a single
// capability: turn a bounded piece of text plus a voice selector into audio
// bytes or a typed failure.
package synth

import (
	"context"
	"errors"
	"fmt"
)

// Backend identifies one of the supported speech providers. The set is closed;
// switches over Backend are expected to be exhaustive.
type Backend int

const (
	BackendElevenLabs Backend = iota
	BackendAzure
)

func (b Backend) String() string {
	switch b {
	case BackendElevenLabs:
		return "elevenlabs"
	case BackendAzure:
		return "azure"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend maps a stored or user-supplied name onto the closed enum.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "elevenlabs":
		return BackendElevenLabs, nil
	case "azure":
		return BackendAzure, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (expected elevenlabs|azure)", s)
	}
}

// Synthesizer converts one bounded piece of text into audio bytes. The audio
// encoding is opaque to callers; both live backends produce MP3. Failures are
// reported as *Error so callers can distinguish configuration problems from
// provider problems.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// FailureKind classifies a synthesis failure for user-facing reporting.
type FailureKind string

const (
	// FailureConfig means credentials or endpoints are missing or invalid.
	// Retrying without fixing the setup cannot succeed.
	FailureConfig FailureKind = "config"
	// FailureProvider means the provider or network failed. A later retry may
	// succeed.
	FailureProvider FailureKind = "provider"
)

// Error is a typed synthesis failure.
type Error struct {
	Kind    FailureKind
	Backend Backend
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error: %s", e.Backend, e.Kind, e.Message)
}

// IsConfigError reports whether err is a synthesis configuration failure.
func IsConfigError(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == FailureConfig
}

// IsProviderError reports whether err is a provider-side synthesis failure.
func IsProviderError(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == FailureProvider
}
