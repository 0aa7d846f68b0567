package ws

import (
	"encoding/json"
	"strings"
	"time"
)

// Event types published on the stream.
const (
	EventExpandCompleted = "expand.completed"
	EventSweepCell       = "sweep.cell"
	EventSweepCompleted  = "sweep.completed"
	EventRunSaved        = "run.saved"
	EventRunFailed       = "run.failed"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client to request event replay and to narrow
// the stream. Topics are event types ("sweep.cell") or families ("sweep");
// an empty list receives everything.
type SubscribeMsg struct {
	Type        string   `json:"type"`
	LastEventID uint64   `json:"last_event_id"`
	Topics      []string `json:"topics,omitempty"`
}

// matchesTopic reports whether eventType is selected by topic, either exactly
// or as a member of the topic's family.
func matchesTopic(topic, eventType string) bool {
	if topic == eventType {
		return true
	}
	family, _, ok := strings.Cut(eventType, ".")
	return ok && topic == family
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
