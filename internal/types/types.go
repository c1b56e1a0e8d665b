package types

import (
	"time"

	"github.com/AdityaMalani1302/cms/internal/store"
)

type ProcessRequest struct {
	Message   string                        `json:"message"`
	SessionID string                        `json:"sessionId,omitempty"`
	UserID    string                        `json:"userId,omitempty"`
	Context   map[string]store.ContextValue `json:"context,omitempty"`
}

type ProcessResponse struct {
	Message      string              `json:"message"`
	Intent       string              `json:"intent"`
	Confidence   float64             `json:"confidence"`
	Entities     map[string][]string `json:"entities"`
	QuickReplies []string            `json:"quickReplies"`
	SessionID    string              `json:"sessionId"`
	Timestamp    time.Time           `json:"timestamp"`
}

type ResetRequest struct {
	SessionID string `json:"sessionId"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WSFrame is sent to WebSocket clients. Type is "connected", "reply" or
// "error"; reply frames carry the same fields as ProcessResponse.
type WSFrame struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
	*ProcessResponse
	SessionID string `json:"sessionId,omitempty"`
}
