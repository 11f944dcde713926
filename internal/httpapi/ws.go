package httpapi

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/extract"
	"github.com/gning/tts-bot/internal/pipeline"
	"github.com/gning/tts-bot/internal/protocol"
	"github.com/gning/tts-bot/internal/settings"
	"github.com/gning/tts-bot/internal/synth"
)

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbound := make(chan any, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
				if t, ok := messageTypeOf(msg); ok {
					s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
				}
			}
		}
	}()

	conn.SetReadLimit(2 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(300 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.send(ctx, outbound, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}
		if t, ok := messageTypeOf(parsed); ok {
			s.metrics.WSMessages.WithLabelValues("inbound", string(t)).Inc()
		}

		switch msg := parsed.(type) {
		case protocol.ClientSpeak:
			s.runChatJob(ctx, outbound, msg)
		case protocol.ClientSettings:
			s.applyChatSettings(ctx, outbound, msg)
		}
		if ctx.Err() != nil {
			break
		}
	}

	cancel()
	close(outbound)
	<-writerDone
}

// runChatJob synthesizes one speak request, streaming progress and audio
// frames as the pipeline works through the segments.
func (s *Server) runChatJob(ctx context.Context, outbound chan<- any, msg protocol.ClientSpeak) {
	jobID := uuid.NewString()

	pref, err := s.resolvePreference(ctx, msg.UserID, "", "")
	if err != nil {
		s.send(ctx, outbound, chatError(jobID, 0, err))
		return
	}

	s.metrics.ActiveJobs.Inc()
	defer s.metrics.ActiveJobs.Dec()

	progress := func(index, total int) {
		s.send(ctx, outbound, protocol.SegmentStatus{
			Type:  protocol.TypeSegmentStatus,
			JobID: jobID,
			Index: index,
			Total: total,
		})
	}

	segs, err := s.speaker.Process(ctx, extract.FromText(msg.Text), pref, progress)
	if err != nil {
		s.send(ctx, outbound, chatError(jobID, 0, err))
		return
	}

	s.send(ctx, outbound, protocol.JobAccepted{
		Type:     protocol.TypeJobAccepted,
		JobID:    jobID,
		Segments: len(segs),
	})

	failed := 0
	for _, seg := range segs {
		if seg.Err != nil {
			failed++
			s.send(ctx, outbound, chatError(jobID, seg.Index, seg.Err))
			continue
		}
		s.send(ctx, outbound, protocol.SegmentAudio{
			Type:        protocol.TypeSegmentAudio,
			JobID:       jobID,
			Index:       seg.Index,
			Total:       seg.Total,
			Label:       seg.Label,
			Format:      "audio/mpeg",
			AudioBase64: base64.StdEncoding.EncodeToString(seg.Audio),
		})
	}
	if failed > 0 {
		s.log.Warn("chat job finished with failed segments",
			zap.String("job_id", jobID), zap.Int("failed", failed))
	}

	s.send(ctx, outbound, protocol.JobDone{
		Type:   protocol.TypeJobDone,
		JobID:  jobID,
		Failed: failed,
	})
}

func (s *Server) applyChatSettings(ctx context.Context, outbound chan<- any, msg protocol.ClientSettings) {
	pref, err := s.store.Get(ctx, msg.UserID)
	if errors.Is(err, settings.ErrNotFound) {
		pref = s.defaultPreference()
		err = nil
	}
	if err != nil {
		s.send(ctx, outbound, chatError("", 0, err))
		return
	}

	if msg.Backend != "" {
		b, parseErr := synth.ParseBackend(msg.Backend)
		if parseErr != nil {
			s.send(ctx, outbound, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_backend",
				Detail: parseErr.Error(),
			})
			return
		}
		pref.Backend = b
	}
	if pref.Voices == nil {
		pref.Voices = make(map[synth.Backend]string)
	}
	if msg.Voice != "" {
		pref.Voices[pref.Backend] = msg.Voice
	}

	if err := s.store.Put(ctx, msg.UserID, pref); err != nil {
		s.send(ctx, outbound, chatError("", 0, err))
		return
	}
	s.send(ctx, outbound, protocol.SettingsApplied{
		Type:    protocol.TypeSettingsApplied,
		UserID:  msg.UserID,
		Backend: pref.Backend.String(),
		Voice:   pref.Voice(),
	})
}

func (s *Server) send(ctx context.Context, outbound chan<- any, msg any) {
	select {
	case <-ctx.Done():
	case outbound <- msg:
	}
}

func chatError(jobID string, index int, err error) protocol.ErrorEvent {
	code := "synthesis_failed"
	retryable := synth.IsProviderError(err)
	var lengthErr *pipeline.LengthError
	switch {
	case errors.Is(err, pipeline.ErrEmptyText):
		code = "empty_text"
	case errors.As(err, &lengthErr):
		code = "text_too_long"
	case synth.IsConfigError(err):
		code = "backend_not_configured"
	}
	return protocol.ErrorEvent{
		Type:      protocol.TypeErrorEvent,
		JobID:     jobID,
		Index:     index,
		Code:      code,
		Retryable: retryable,
		Detail:    err.Error(),
	}
}

func messageTypeOf(v any) (protocol.MessageType, bool) {
	switch m := v.(type) {
	case protocol.ClientSpeak:
		return m.Type, true
	case protocol.ClientSettings:
		return m.Type, true
	case protocol.JobAccepted:
		return m.Type, true
	case protocol.SegmentStatus:
		return m.Type, true
	case protocol.SegmentAudio:
		return m.Type, true
	case protocol.JobDone:
		return m.Type, true
	case protocol.SettingsApplied:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
