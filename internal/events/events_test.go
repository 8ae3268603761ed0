package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type testPayload struct {
		RequestID string `json:"requestId"`
		Action    string `json:"action"`
	}

	payload := testPayload{
		RequestID: uuid.NewString(),
		Action:    "test_action",
	}

	event, err := NewEvent("test.topic", payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "test.topic", event.Topic)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded testPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventUnencodablePayload(t *testing.T) {
	_, err := NewEvent("test.topic", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name  string
		event *Event
		want  string
	}{
		{name: "nil event", event: nil, want: ""},
		{name: "empty payload", event: &Event{}, want: ""},
		{name: "no request id", event: &Event{Payload: json.RawMessage(`{"theme":"x"}`)}, want: ""},
		{name: "request id", event: &Event{Payload: json.RawMessage(`{"requestId":"abc","success":true}`)}, want: "abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CorrelationID(tc.event))
		})
	}
}

// MockEventHandler implements the Handler interface for testing
type MockEventHandler struct {
	LastEvent    *Event
	HandlerError error
	HandledCount int
}

// HandleEvent implements the Handler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	handler := &MockEventHandler{}
	fn := HandlerFunc(handler.HandleEvent)

	event, err := NewEvent("test_type", map[string]string{"key": "value"})
	require.NoError(t, err)

	assert.NoError(t, fn.HandleEvent(context.Background(), event))
	assert.Equal(t, 1, handler.HandledCount)
	assert.Equal(t, event, handler.LastEvent)

	expectedErr := errors.New("handler error")
	handler.HandlerError = expectedErr
	assert.Equal(t, expectedErr, fn.HandleEvent(context.Background(), event))
	assert.Equal(t, 2, handler.HandledCount)
}
