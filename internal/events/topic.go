package events

import (
	"context"
	"fmt"
	"reflect"
)

// Topic is a topic name bound to its payload type.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic and records it in the registry.
func NewTopic[T any](name string) Topic[T] {
	Register(name, reflect.TypeFor[T]())
	return Topic[T]{name: name}
}

// Name returns the wire name of the topic.
func (t Topic[T]) Name() string {
	return t.name
}

func (t Topic[T]) String() string {
	return t.name
}

// Emit wraps payload in an Event and publishes it on the topic.
func Emit[T any](ctx context.Context, d Dispatcher, t Topic[T], payload T) (*Event, error) {
	event, err := NewEvent(t.name, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", t.name, err)
	}
	if err := d.Publish(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Subscribe registers fn for the topic, decoding each payload into T first.
func Subscribe[T any](d Dispatcher, t Topic[T], name string, fn func(ctx context.Context, payload T) error) error {
	return d.Subscribe(t.name, name, HandlerFunc(func(ctx context.Context, event *Event) error {
		var payload T
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("%w: topic %s: %v", ErrMalformedPayload, t.name, err)
		}
		return fn(ctx, payload)
	}))
}
