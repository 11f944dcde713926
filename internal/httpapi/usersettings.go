package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gning/tts-bot/internal/settings"
	"github.com/gning/tts-bot/internal/synth"
)

type settingsResponse struct {
	UserID  string            `json:"user_id"`
	Backend string            `json:"backend"`
	Voice   string            `json:"voice"`
	Voices  map[string]string `json:"voices,omitempty"`
	Stored  bool              `json:"stored"`
}

type putSettingsRequest struct {
	Backend string `json:"backend,omitempty"`
	Voice   string `json:"voice,omitempty"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "missing user id")
		return
	}

	pref, err := s.store.Get(r.Context(), userID)
	stored := true
	switch {
	case errors.Is(err, settings.ErrNotFound):
		pref = s.defaultPreference()
		stored = false
	case err != nil:
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, settingsResponseFor(userID, pref, stored, s.defaultVoiceFor(pref.Backend)))
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "missing user id")
		return
	}

	var req putSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Backend == "" && req.Voice == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "backend or voice is required")
		return
	}

	pref, err := s.store.Get(r.Context(), userID)
	if errors.Is(err, settings.ErrNotFound) {
		pref = s.defaultPreference()
		err = nil
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	if req.Backend != "" {
		b, parseErr := synth.ParseBackend(req.Backend)
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "invalid_backend", parseErr.Error())
			return
		}
		pref.Backend = b
	}
	if pref.Voices == nil {
		pref.Voices = make(map[synth.Backend]string)
	}
	if req.Voice != "" {
		pref.Voices[pref.Backend] = req.Voice
	}

	if err := s.store.Put(r.Context(), userID, pref); err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, settingsResponseFor(userID, pref, true, s.defaultVoiceFor(pref.Backend)))
}

func settingsResponseFor(userID string, pref settings.Preference, stored bool, defaultVoice string) settingsResponse {
	voices := make(map[string]string, len(pref.Voices))
	for b, v := range pref.Voices {
		voices[b.String()] = v
	}
	voice := pref.Voice()
	if voice == "" {
		voice = defaultVoice
	}
	return settingsResponse{
		UserID:  userID,
		Backend: pref.Backend.String(),
		Voice:   voice,
		Voices:  voices,
		Stored:  stored,
	}
}
