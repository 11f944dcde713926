package synth

import (
	"context"
	"strings"
	"sync"
)

// MockSynthesizer is an in-process backend for tests and keyless dev runs. It
// returns the input text bytes as "audio" and can be scripted to fail on
// specific call numbers.
type MockSynthesizer struct {
	mu      sync.Mutex
	calls   int
	FailOn  map[int]error
	Voices  []string
	Prefix  string
	LastCtx context.Context
}

func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{Prefix: "mock-audio:"}
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.LastCtx = ctx
	m.Voices = append(m.Voices, voice)
	if err, ok := m.FailOn[m.calls]; ok {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(m.Prefix)
	b.WriteString(text)
	return []byte(b.String()), nil
}

// Calls returns how many times Synthesize has been invoked.
func (m *MockSynthesizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
