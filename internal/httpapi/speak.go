package httpapi

import (
	"encoding/base64"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gning/tts-bot/internal/extract"
	"github.com/gning/tts-bot/internal/settings"
)

type speakRequest struct {
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
	Backend string `json:"backend,omitempty"`
	Voice   string `json:"voice,omitempty"`
}

type segmentResult struct {
	Label       string `json:"label"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	AudioBase64 string `json:"audio_base64,omitempty"`
	Error       string `json:"error,omitempty"`
}

type speakResponse struct {
	JobID    string          `json:"job_id"`
	Backend  string          `json:"backend"`
	Voice    string          `json:"voice"`
	Segments []segmentResult `json:"segments"`
	Failed   int             `json:"failed"`
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	pref, err := s.resolvePreference(r.Context(), strings.TrimSpace(req.UserID), req.Backend, req.Voice)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_preference", err.Error())
		return
	}

	resp, err := s.runJob(r, extract.FromText(req.Text), pref)
	if err != nil {
		respondPipelineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDocument accepts a multipart upload, extracts its text, and
// synthesizes each extracted document as its own job.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing_file", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	q := r.URL.Query()
	pref, err := s.resolvePreference(r.Context(), strings.TrimSpace(q.Get("user_id")), q.Get("backend"), q.Get("voice"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_preference", err.Error())
		return
	}

	docs, err := extract.FromReader(file, filepath.Base(header.Filename))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "extraction_failed", err.Error())
		return
	}

	jobs := make([]speakResponse, 0, len(docs))
	for _, doc := range docs {
		resp, err := s.runJob(r, doc, pref)
		if err != nil {
			respondPipelineError(w, err)
			return
		}
		jobs = append(jobs, resp)
	}
	respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) runJob(r *http.Request, doc extract.Document, pref settings.Preference) (speakResponse, error) {
	s.metrics.ActiveJobs.Inc()
	defer s.metrics.ActiveJobs.Dec()

	segs, err := s.speaker.Process(r.Context(), doc, pref, nil)
	if err != nil {
		return speakResponse{}, err
	}

	resp := speakResponse{
		JobID:    uuid.NewString(),
		Backend:  pref.Backend.String(),
		Voice:    pref.Voice(),
		Segments: make([]segmentResult, 0, len(segs)),
	}
	for _, seg := range segs {
		out := segmentResult{Label: seg.Label, Index: seg.Index, Total: seg.Total}
		if seg.Err != nil {
			out.Error = seg.Err.Error()
			resp.Failed++
		} else {
			out.AudioBase64 = base64.StdEncoding.EncodeToString(seg.Audio)
		}
		resp.Segments = append(resp.Segments, out)
	}
	if resp.Failed > 0 {
		s.log.Warn("job completed with failed segments",
			zap.String("job_id", resp.JobID),
			zap.Int("failed", resp.Failed),
			zap.Int("total", len(segs)))
	}
	return resp, nil
}
