package entity

import (
	"time"
)

type VoiceCommand struct {
	ID         string       `json:"id"`
	Session    string       `json:"session"`
	Utterance  string       `json:"utterance"`
	Context    PageContext  `json:"context"`
	Intent     Intent       `json:"intent"`
	Resolution Resolution   `json:"resolution"`
	Advisory   string       `json:"advisory,omitempty"`
	Source     IntentSource `json:"source"`
	Generation uint64       `json:"generation"`
	Superseded bool         `json:"superseded"`
	RemoteErr  string       `json:"remote_error,omitempty"`
	Latency    int64        `json:"latency_ms"`
	CreatedAt  time.Time    `json:"created_at"`
}

type VoiceSession struct {
	ID           string    `json:"id"`
	Generation   uint64    `json:"generation"`
	LastActivity time.Time `json:"last_activity"`
}
