package membus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/task"
)

// ErrDuplicateSubscription is returned when a subscriber name is reused on a topic.
var ErrDuplicateSubscription = errors.New("subscription already registered")

// deliveryTaskType labels delivery tasks in worker logs.
const deliveryTaskType = "event_delivery"

// Config holds the bus sizing.
type Config struct {
	// QueueSize bounds the number of deliveries waiting for a worker.
	QueueSize int

	// WorkerCount is the number of concurrent deliveries.
	WorkerCount int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:   256,
		WorkerCount: 4,
	}
}

type subscription struct {
	name    string
	handler events.Handler
}

// Bus is an in-memory events.Dispatcher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	closed bool

	queue  *task.TaskQueue
	pool   *task.WorkerPool
	logger *slog.Logger
}

var _ events.Dispatcher = (*Bus)(nil)

// New creates a Bus and starts its workers.
func New(cfg Config, logger *slog.Logger) *Bus {
	logger = logger.With("component", "membus")

	queue := task.NewTaskQueue(cfg.QueueSize, logger)
	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: cfg.WorkerCount}, logger)

	b := &Bus{
		subs:   make(map[string][]subscription),
		queue:  queue,
		pool:   pool,
		logger: logger,
	}
	pool.SetErrorHandler(b.reportFailure)
	pool.Start()

	return b
}

// Subscribe registers a named handler for topic.
func (b *Bus) Subscribe(topic, name string, handler events.Handler) error {
	if topic == "" || name == "" {
		return errors.New("topic and subscriber name are required")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("%w: bus is closed", events.ErrNotAccepted)
	}
	for _, s := range b.subs[topic] {
		if s.name == name {
			return fmt.Errorf("%w: %s on %s", ErrDuplicateSubscription, name, topic)
		}
	}
	b.subs[topic] = append(b.subs[topic], subscription{name: name, handler: handler})

	b.logger.Debug("subscriber registered", "topic", topic, "subscriber", name)
	return nil
}

// Publish enqueues one delivery per subscriber of the event's topic. It
// returns nil once every delivery is queued. Publishing to a topic without
// subscribers logs a warning and succeeds.
func (b *Bus) Publish(ctx context.Context, event *events.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", events.ErrNotAccepted, err)
	}

	// Copy so Subscribe can run while deliveries are being queued.
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("%w: bus is closed", events.ErrNotAccepted)
	}
	subs := make([]subscription, len(b.subs[event.Topic]))
	copy(subs, b.subs[event.Topic])
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.logger.Warn("no subscribers for topic",
			"topic", event.Topic,
			"event_id", event.ID,
			"request_id", events.CorrelationID(event))
		return nil
	}

	for _, s := range subs {
		d := &delivery{
			id:    uuid.New(),
			event: event,
			sub:   s,
		}
		if err := b.queue.Enqueue(d); err != nil {
			return fmt.Errorf("%w: topic %s subscriber %s: %v", events.ErrNotAccepted, event.Topic, s.name, err)
		}
	}

	b.logger.Debug("event published",
		"topic", event.Topic,
		"event_id", event.ID,
		"request_id", events.CorrelationID(event),
		"deliveries", len(subs))
	return nil
}

// Close stops accepting events and waits for queued deliveries to finish.
// When ctx expires first, in-flight handlers are cancelled.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.queue.Close()
	return b.pool.Shutdown(ctx)
}

func (b *Bus) reportFailure(t task.Task, err error) {
	d, ok := t.(*delivery)
	if !ok {
		return
	}
	b.logger.Error("event handler failed",
		"topic", d.event.Topic,
		"subscriber", d.sub.name,
		"event_id", d.event.ID,
		"request_id", events.CorrelationID(d.event),
		"error", err)
}

// delivery hands one event to one subscriber.
type delivery struct {
	id    uuid.UUID
	event *events.Event
	sub   subscription
}

func (d *delivery) ID() uuid.UUID {
	return d.id
}

func (d *delivery) Type() string {
	return deliveryTaskType
}

func (d *delivery) Execute(ctx context.Context) error {
	return d.sub.handler.HandleEvent(ctx, d.event)
}
