// Package pipeline orchestrates multi-part speech synthesis: chunk the
// extracted text, drive each chunk through the selected backend in order, and
// label every delivered part.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/chunker"
	"github.com/gning/tts-bot/internal/extract"
	"github.com/gning/tts-bot/internal/naming"
	"github.com/gning/tts-bot/internal/observability"
	"github.com/gning/tts-bot/internal/settings"
	"github.com/gning/tts-bot/internal/synth"
)

// ErrEmptyText is returned when the extracted text has nothing to synthesize.
var ErrEmptyText = errors.New("nothing to synthesize: extracted text is empty")

// LengthError reports input rejected before any synthesis work began.
type LengthError struct {
	Length int
	Max    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("text is too long (%d characters, maximum is %d)", e.Length, e.Max)
}

// Segment is the outcome of one chunk: audio bytes or the failure that
// replaced them. Exactly one of Audio and Err is set.
type Segment struct {
	Label string
	Index int
	Total int
	Audio []byte
	Err   error
}

// Config carries the operating constants of the pipeline.
type Config struct {
	// MaxChunkSize bounds each synthesized segment. Fixed per deployment so
	// per-segment audio stays within the delivery transport's size limits.
	MaxChunkSize int
	// OverallMaxTextLength is the larger whole-input ceiling, checked once
	// before chunking.
	OverallMaxTextLength int
}

// ProgressFunc receives current/total before each segment of a multi-part
// job. It is never called for single-segment jobs.
type ProgressFunc func(index, total int)

// Pipeline drives documents through a synthesis backend, strictly
// sequentially, reporting each segment's outcome independently.
type Pipeline struct {
	backends map[synth.Backend]synth.Synthesizer
	cfg      Config
	metrics  *observability.Metrics
	log      *zap.Logger
}

func New(backends map[synth.Backend]synth.Synthesizer, cfg Config, metrics *observability.Metrics, log *zap.Logger) *Pipeline {
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = 4000
	}
	if cfg.OverallMaxTextLength <= 0 {
		cfg.OverallMaxTextLength = 200000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{backends: backends, cfg: cfg, metrics: metrics, log: log}
}

// Process synthesizes doc with the user's preferred backend and voice. A
// failing segment never aborts the batch: every chunk is attempted and its
// outcome reported in order. Process itself only fails for inputs rejected
// before synthesis (empty text, over-length text, unknown backend).
func (p *Pipeline) Process(ctx context.Context, doc extract.Document, pref settings.Preference, progress ProgressFunc) ([]Segment, error) {
	text := strings.TrimSpace(doc.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if len(text) > p.cfg.OverallMaxTextLength {
		p.countRejection("length_exceeded")
		return nil, &LengthError{Length: len(text), Max: p.cfg.OverallMaxTextLength}
	}

	backend, ok := p.backends[pref.Backend]
	if !ok {
		p.countRejection("unknown_backend")
		return nil, &synth.Error{
			Kind:    synth.FailureConfig,
			Backend: pref.Backend,
			Message: "backend is not configured",
		}
	}
	voice := pref.Voice()

	chunks := chunker.Split(text, p.cfg.MaxChunkSize)
	base := naming.BaseName(doc.BookTitle, doc.ChapterTitle, doc.FileBaseName)
	chapterFlow := strings.TrimSpace(doc.ChapterTitle) != "" || strings.TrimSpace(doc.BookTitle) != ""

	// ActiveJobs is owned by the callers that define a job (the HTTP and
	// websocket handlers); only per-chunk instruments live here.
	if p.metrics != nil {
		p.metrics.ChunksPerJob.Observe(float64(len(chunks)))
	}

	segments := make([]Segment, 0, len(chunks))
	for _, c := range chunks {
		if progress != nil && c.Total > 1 {
			progress(c.Index, c.Total)
		}

		start := time.Now()
		audio, err := backend.Synthesize(ctx, c.Content, voice)
		elapsed := time.Since(start)

		label := naming.PartLabel(base, c.Index, c.Total)
		if chapterFlow {
			label = naming.ChapterLabel(base, c.Index, c.Total)
		}

		seg := Segment{Label: label, Index: c.Index, Total: c.Total}
		if err != nil {
			seg.Err = err
			p.log.Warn("segment synthesis failed",
				zap.Stringer("backend", pref.Backend),
				zap.Int("index", c.Index),
				zap.Int("total", c.Total),
				zap.Error(err),
			)
			p.countAttempt(pref.Backend, "failure")
		} else {
			seg.Audio = audio
			p.countAttempt(pref.Backend, "success")
		}
		if p.metrics != nil {
			p.metrics.ObserveSegmentLatency(elapsed)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

func (p *Pipeline) countAttempt(backend synth.Backend, outcome string) {
	if p.metrics != nil {
		p.metrics.SynthesisAttempts.WithLabelValues(backend.String(), outcome).Inc()
	}
}

func (p *Pipeline) countRejection(reason string) {
	if p.metrics != nil {
		p.metrics.JobsRejected.WithLabelValues(reason).Inc()
	}
}
