// Package httpapi exposes the synthesis pipeline over HTTP and websocket.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/config"
	"github.com/gning/tts-bot/internal/extract"
	"github.com/gning/tts-bot/internal/observability"
	"github.com/gning/tts-bot/internal/pipeline"
	"github.com/gning/tts-bot/internal/settings"
	"github.com/gning/tts-bot/internal/synth"
)

// Speaker turns a document into audio segments. Satisfied by
// pipeline.Pipeline.
type Speaker interface {
	Process(ctx context.Context, doc extract.Document, pref settings.Preference, progress pipeline.ProgressFunc) ([]pipeline.Segment, error)
}

type Server struct {
	cfg      config.Config
	speaker  Speaker
	store    settings.Store
	metrics  *observability.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func New(cfg config.Config, speaker Speaker, store settings.Store, metrics *observability.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		speaker: speaker,
		store:   store,
		metrics: metrics,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/speak", s.handleSpeak)
	r.Post("/v1/documents", s.handleDocument)
	r.Get("/v1/voices", s.handleListVoices)
	r.Get("/v1/users/{id}/settings", s.handleGetSettings)
	r.Put("/v1/users/{id}/settings", s.handlePutSettings)
	r.Get("/v1/chat/ws", s.handleChatWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"default_backend": s.cfg.DefaultBackend,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// resolvePreference merges the stored preference for a user with per-request
// overrides and configured defaults. An absent store entry is not an error.
func (s *Server) resolvePreference(ctx context.Context, userID, backendOverride, voiceOverride string) (settings.Preference, error) {
	pref := s.defaultPreference()
	if userID != "" {
		stored, err := s.store.Get(ctx, userID)
		switch {
		case err == nil:
			pref = stored
		case errors.Is(err, settings.ErrNotFound):
		default:
			return settings.Preference{}, err
		}
	}

	if backendOverride != "" {
		b, err := synth.ParseBackend(backendOverride)
		if err != nil {
			return settings.Preference{}, err
		}
		pref.Backend = b
	}
	if pref.Voices == nil {
		pref.Voices = make(map[synth.Backend]string)
	}
	if voiceOverride != "" {
		pref.Voices[pref.Backend] = voiceOverride
	}
	if pref.Voices[pref.Backend] == "" {
		pref.Voices[pref.Backend] = s.defaultVoiceFor(pref.Backend)
	}
	return pref, nil
}

func (s *Server) defaultPreference() settings.Preference {
	backend := synth.BackendElevenLabs
	if b, err := synth.ParseBackend(s.cfg.DefaultBackend); err == nil {
		backend = b
	}
	return settings.Preference{
		Backend: backend,
		Voices:  map[synth.Backend]string{backend: s.defaultVoiceFor(backend)},
	}
}

func (s *Server) defaultVoiceFor(backend synth.Backend) string {
	switch backend {
	case synth.BackendAzure:
		return s.cfg.AzureSpeechVoiceName
	default:
		return s.cfg.ElevenLabsVoiceID
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondPipelineError maps pipeline and synthesis failures to HTTP statuses.
func respondPipelineError(w http.ResponseWriter, err error) {
	var lengthErr *pipeline.LengthError
	switch {
	case errors.Is(err, pipeline.ErrEmptyText):
		respondError(w, http.StatusBadRequest, "empty_text", err.Error())
	case errors.As(err, &lengthErr):
		respondError(w, http.StatusRequestEntityTooLarge, "text_too_long", err.Error())
	case synth.IsConfigError(err):
		respondError(w, http.StatusServiceUnavailable, "backend_not_configured", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "synthesis_failed", err.Error())
	}
}
