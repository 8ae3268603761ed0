package events

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDispatcher delivers synchronously and keeps every published event.
type recordingDispatcher struct {
	mu         sync.Mutex
	published  []*Event
	handlers   map[string][]Handler
	publishErr error
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{handlers: make(map[string][]Handler)}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event *Event) error {
	if d.publishErr != nil {
		return d.publishErr
	}
	d.mu.Lock()
	d.published = append(d.published, event)
	handlers := append([]Handler(nil), d.handlers[event.Topic]...)
	d.mu.Unlock()

	for _, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (d *recordingDispatcher) Subscribe(topic, name string, handler Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[topic] = append(d.handlers[topic], handler)
	return nil
}

type pingPayload struct {
	RequestID string `json:"requestId"`
	Seq       int    `json:"seq"`
}

var topicPing = NewTopic[pingPayload]("test.ping")

func TestNewTopicRegisters(t *testing.T) {
	typ, ok := PayloadType("test.ping")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[pingPayload](), typ)
	assert.Contains(t, Registered(), "test.ping")
	assert.Equal(t, "test.ping", topicPing.Name())
	assert.Equal(t, "test.ping", topicPing.String())
}

func TestRegisterSameTypeIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = NewTopic[pingPayload]("test.ping")
	})
}

func TestRegisterConflictPanics(t *testing.T) {
	assert.Panics(t, func() {
		_ = NewTopic[string]("test.ping")
	})
}

func TestRegisterEmptyNamePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("", reflect.TypeFor[int]())
	})
}

func TestEmitAndSubscribe(t *testing.T) {
	d := newRecordingDispatcher()

	var got []pingPayload
	err := Subscribe(d, topicPing, "collector", func(ctx context.Context, p pingPayload) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)

	event, err := Emit(context.Background(), d, topicPing, pingPayload{RequestID: "r-1", Seq: 7})
	require.NoError(t, err)

	assert.Equal(t, "test.ping", event.Topic)
	assert.Equal(t, "r-1", CorrelationID(event))
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Seq)
}

func TestEmitPublishError(t *testing.T) {
	d := newRecordingDispatcher()
	d.publishErr = ErrNotAccepted

	event, err := Emit(context.Background(), d, topicPing, pingPayload{RequestID: "r-2"})
	assert.Nil(t, event)
	assert.ErrorIs(t, err, ErrNotAccepted)
}

func TestSubscribeMalformedPayload(t *testing.T) {
	d := newRecordingDispatcher()
	called := false
	require.NoError(t, Subscribe(d, topicPing, "strict", func(ctx context.Context, p pingPayload) error {
		called = true
		return nil
	}))

	err := d.Publish(context.Background(), &Event{Topic: "test.ping", Payload: json.RawMessage(`{"seq":"seven"}`)})
	assert.True(t, errors.Is(err, ErrMalformedPayload))
	assert.False(t, called)
}
