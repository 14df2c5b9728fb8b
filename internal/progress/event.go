package progress

import "encoding/json"

// Event kinds carried on the stream.
const (
	TypeProgress = "progress"
	TypeError    = "error"
	TypePing     = "ping"
)

// Event is one message on the progress stream. Events are immutable once
// constructed; Percent is only present for progress events.
type Event struct {
	Type    string   `json:"type"`
	Percent *float64 `json:"progress,omitempty"`
	Message string   `json:"message,omitempty"`
}

// NewProgress builds a progress event. Percent is a fraction in [0, 1].
func NewProgress(percent float64, message string) Event {
	return Event{Type: TypeProgress, Percent: &percent, Message: message}
}

// NewError builds an error event.
func NewError(message string) Event {
	return Event{Type: TypeError, Message: message}
}

// NewPing builds a keepalive ping event.
func NewPing() Event {
	return Event{Type: TypePing}
}

// Encode serializes the event to its wire form.
func (e Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// Event has no unmarshalable fields; this cannot happen.
		return []byte(`{"type":"error","message":"event encoding failed"}`)
	}
	return data
}
