package events

import (
	"encoding/json"
	"time"
)

// Event defines the contract for all domain events.
type Event interface {
	// EventType returns the dotted code for this event (e.g. "collaboration.invited").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Encode serializes any Event into the BaseEvent wire shape.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Decode(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
