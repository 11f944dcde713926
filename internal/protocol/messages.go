// Package protocol defines the websocket message frames exchanged with
// speech clients.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientSpeak     MessageType = "client_speak"
	TypeClientSettings  MessageType = "client_settings"
	TypeJobAccepted     MessageType = "job_accepted"
	TypeSegmentStatus   MessageType = "segment_status"
	TypeSegmentAudio    MessageType = "segment_audio"
	TypeJobDone         MessageType = "job_done"
	TypeSettingsApplied MessageType = "settings_applied"
	TypeErrorEvent      MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientSpeak asks the server to synthesize a text into audio segments.
type ClientSpeak struct {
	Type   MessageType `json:"type"`
	UserID string      `json:"user_id"`
	Text   string      `json:"text"`
}

// ClientSettings updates the caller's backend or voice preference for the
// duration of the connection and in the store.
type ClientSettings struct {
	Type    MessageType `json:"type"`
	UserID  string      `json:"user_id"`
	Backend string      `json:"backend,omitempty"`
	Voice   string      `json:"voice,omitempty"`
}

// JobAccepted acknowledges a speak request and announces the segment count.
type JobAccepted struct {
	Type     MessageType `json:"type"`
	JobID    string      `json:"job_id"`
	Segments int         `json:"segments"`
}

// SegmentStatus reports progress for multi-part jobs before each segment is
// synthesized.
type SegmentStatus struct {
	Type  MessageType `json:"type"`
	JobID string      `json:"job_id"`
	Index int         `json:"index"`
	Total int         `json:"total"`
}

// SegmentAudio carries one finished audio segment.
type SegmentAudio struct {
	Type        MessageType `json:"type"`
	JobID       string      `json:"job_id"`
	Index       int         `json:"index"`
	Total       int         `json:"total"`
	Label       string      `json:"label"`
	Format      string      `json:"format"`
	AudioBase64 string      `json:"audio_base64"`
}

// JobDone closes a job, reporting how many segments failed.
type JobDone struct {
	Type   MessageType `json:"type"`
	JobID  string      `json:"job_id"`
	Failed int         `json:"failed"`
}

// SettingsApplied confirms a preference update made over the connection.
type SettingsApplied struct {
	Type    MessageType `json:"type"`
	UserID  string      `json:"user_id"`
	Backend string      `json:"backend"`
	Voice   string      `json:"voice"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	JobID     string      `json:"job_id,omitempty"`
	Index     int         `json:"index,omitempty"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

// ParseClientMessage decodes and validates a frame sent by a client.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientSpeak:
		var msg ClientSpeak
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.UserID == "" || msg.Text == "" {
			return nil, errors.New("invalid client_speak")
		}
		return msg, nil
	case TypeClientSettings:
		var msg ClientSettings
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.UserID == "" || (msg.Backend == "" && msg.Voice == "") {
			return nil, errors.New("invalid client_settings")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
