package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/courier/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockDispatcher is a mock implementation of events.Dispatcher. Events whose
// Publish call succeeds are kept for inspection.
type MockDispatcher struct {
	mock.Mock

	mu        sync.Mutex
	published []*events.Event
}

var _ events.Dispatcher = (*MockDispatcher)(nil)

// Publish implements events.Dispatcher.
func (m *MockDispatcher) Publish(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.published = append(m.published, event)
		m.mu.Unlock()
	}
	return args.Error(0)
}

// Subscribe implements events.Dispatcher.
func (m *MockDispatcher) Subscribe(topic, name string, handler events.Handler) error {
	args := m.Called(topic, name, handler)
	return args.Error(0)
}

// Published returns a copy of the successfully published events in order.
func (m *MockDispatcher) Published() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.Event, len(m.published))
	copy(out, m.published)
	return out
}

// OnTopic expects Publish calls for topic and returns err from each of them.
func (m *MockDispatcher) OnTopic(topic string, err error) *mock.Call {
	return m.On("Publish", mock.Anything, mock.MatchedBy(func(e *events.Event) bool {
		return e != nil && e.Topic == topic
	})).Return(err)
}
