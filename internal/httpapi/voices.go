package httpapi

import (
	"net/http"

	"github.com/gning/tts-bot/internal/synth"
)

type voiceSummary struct {
	Voice  string `json:"voice"`
	Name   string `json:"name"`
	Locale string `json:"locale,omitempty"`
}

type backendVoices struct {
	Backend      string         `json:"backend"`
	DefaultVoice string         `json:"default_voice"`
	Voices       []voiceSummary `json:"voices"`
}

var elevenLabsCatalog = []voiceSummary{
	{Voice: "EXAVITQu4vr4xnSDxMaL", Name: "Rachel"},
	{Voice: "AZnzlk1XvdvUeBnXmlld", Name: "Domi"},
	{Voice: "21m00Tcm4TlvDq8ikWAM", Name: "Bella"},
	{Voice: "ErXwobaYiN019PkySvjV", Name: "Antoni"},
}

var azureCatalog = []voiceSummary{
	{Voice: "en-US-JennyNeural", Name: "Jenny", Locale: "en-US"},
	{Voice: "en-US-GuyNeural", Name: "Guy", Locale: "en-US"},
	{Voice: "en-GB-ClaraNeural", Name: "Clara", Locale: "en-GB"},
	{Voice: "en-GB-ThomasNeural", Name: "Thomas", Locale: "en-GB"},
	{Voice: "zh-CN-XiaoxiaoNeural", Name: "Xiaoxiao", Locale: "zh-CN"},
	{Voice: "zh-CN-YunxiNeural", Name: "Yunxi", Locale: "zh-CN"},
}

func (s *Server) handleListVoices(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"default_backend": s.cfg.DefaultBackend,
		"backends": []backendVoices{
			{
				Backend:      synth.BackendElevenLabs.String(),
				DefaultVoice: s.cfg.ElevenLabsVoiceID,
				Voices:       elevenLabsCatalog,
			},
			{
				Backend:      synth.BackendAzure.String(),
				DefaultVoice: s.cfg.AzureSpeechVoiceName,
				Voices:       azureCatalog,
			},
		},
	})
}
