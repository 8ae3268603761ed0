package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Common errors returned by dispatchers.
var (
	// ErrNotAccepted is returned when the dispatcher refuses to take an event,
	// for example because its buffer is full or it has been shut down.
	ErrNotAccepted = errors.New("event not accepted by dispatcher")

	// ErrMalformedPayload is returned by typed subscribers when an event's
	// payload does not decode into the topic's payload type, and by handlers
	// rejecting a payload that can never be processed. Redelivery cannot fix
	// either.
	ErrMalformedPayload = errors.New("malformed event payload")
)

// correlationField is the payload field every task and result carries.
const correlationField = "requestId"

// Event is the envelope published on a topic.
type Event struct {
	// ID is a unique identifier for this delivery envelope. It is distinct
	// from the correlation ID carried inside the payload.
	ID uuid.UUID `json:"id"`

	// Topic is the name the event was published under.
	Topic string `json:"topic"`

	// Payload contains the topic-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates a new Event for the given topic and payload.
func NewEvent(topic string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Topic:     topic,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// CorrelationID returns the requestId carried in the payload, or an empty
// string when there is none. Dispatchers use it for log attributes without
// decoding payloads they know nothing about.
func CorrelationID(e *Event) string {
	if e == nil || len(e.Payload) == 0 {
		return ""
	}
	return gjson.GetBytes(e.Payload, correlationField).String()
}

// Handler defines an interface for components that consume events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// A returned error is reported by the dispatcher; whether the event is
	// redelivered depends on the dispatcher.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Dispatcher is the event bus. Publish returns once the bus has accepted the
// event; delivery to subscribers happens asynchronously.
type Dispatcher interface {
	// Publish hands the event to the bus. An error wrapping ErrNotAccepted
	// means nothing was enqueued for delivery.
	Publish(ctx context.Context, event *Event) error

	// Subscribe registers a named handler for a topic.
	Subscribe(topic, name string, handler Handler) error
}
