package cloudbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/courier/internal/events"
	"gocloud.dev/pubsub"

	_ "gocloud.dev/pubsub/awssnssqs"
	_ "gocloud.dev/pubsub/gcppubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// Metadata keys carrying the event envelope next to the payload body.
const (
	metaEventID   = "event_id"
	metaTopic     = "topic"
	metaCreatedAt = "created_at"
)

// Options configures how topics and subscriptions are addressed.
type Options struct {
	// TopicURL is a URL format whose single %s is replaced by the topic name,
	// e.g. "mem://courier-%s".
	TopicURL string

	// SubscriptionURL is the equivalent format for subscriptions. Empty means
	// TopicURL, which is what mem:// expects.
	SubscriptionURL string
}

// Bus is an events.Dispatcher backed by gocloud pubsub.
type Bus struct {
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
	subs   []*pubsub.Subscription
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ events.Dispatcher = (*Bus)(nil)

// New validates opts and returns a Bus. Topics are opened lazily.
func New(opts Options, logger *slog.Logger) (*Bus, error) {
	if strings.Count(opts.TopicURL, "%s") != 1 {
		return nil, fmt.Errorf("topic URL %q must contain exactly one %%s", opts.TopicURL)
	}
	if opts.SubscriptionURL == "" {
		opts.SubscriptionURL = opts.TopicURL
	}
	if strings.Count(opts.SubscriptionURL, "%s") != 1 {
		return nil, fmt.Errorf("subscription URL %q must contain exactly one %%s", opts.SubscriptionURL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		opts:   opts,
		logger: logger.With("component", "cloudbus"),
		topics: make(map[string]*pubsub.Topic),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// openTopic returns the cached topic handle, opening it on first use.
// Caller must hold b.mu.
func (b *Bus) openTopic(ctx context.Context, name string) (*pubsub.Topic, error) {
	if t, ok := b.topics[name]; ok {
		return t, nil
	}
	t, err := pubsub.OpenTopic(ctx, fmt.Sprintf(b.opts.TopicURL, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open topic %s: %w", name, err)
	}
	b.topics[name] = t
	return t, nil
}

// Publish sends the event to its topic. It returns once the broker has
// accepted the message.
func (b *Bus) Publish(ctx context.Context, event *events.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("%w: bus is closed", events.ErrNotAccepted)
	}
	topic, err := b.openTopic(ctx, event.Topic)
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrNotAccepted, err)
	}

	msg := &pubsub.Message{
		Body: event.Payload,
		Metadata: map[string]string{
			metaEventID:   event.ID.String(),
			metaTopic:     event.Topic,
			metaCreatedAt: event.CreatedAt.Format(time.RFC3339Nano),
		},
	}
	if err := topic.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic %s: %v", events.ErrNotAccepted, event.Topic, err)
	}

	b.logger.Debug("event published",
		"topic", event.Topic,
		"event_id", event.ID,
		"request_id", events.CorrelationID(event))
	return nil
}

// Subscribe opens a subscription for topic and starts a receive loop. A
// handler error nacks the message so the broker redelivers it; malformed
// payloads are acked and dropped.
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

	// In-memory subscriptions can only attach to a topic that already exists.
	if _, err := b.openTopic(b.ctx, topic); err != nil {
		return err
	}

	sub, err := pubsub.OpenSubscription(b.ctx, fmt.Sprintf(b.opts.SubscriptionURL, topic))
	if err != nil {
		return fmt.Errorf("failed to open subscription %s for %s: %w", name, topic, err)
	}
	b.subs = append(b.subs, sub)

	b.wg.Add(1)
	go b.receive(sub, topic, name, handler)

	b.logger.Debug("subscriber registered", "topic", topic, "subscriber", name)
	return nil
}

func (b *Bus) receive(sub *pubsub.Subscription, topic, name string, handler events.Handler) {
	defer b.wg.Done()

	logger := b.logger.With("topic", topic, "subscriber", name)

	for {
		msg, err := sub.Receive(b.ctx)
		if err != nil {
			if b.ctx.Err() == nil {
				logger.Error("subscription receive failed, stopping", "error", err)
			}
			return
		}

		event := decode(topic, msg)
		err = handler.HandleEvent(b.ctx, event)
		if err == nil {
			msg.Ack()
			continue
		}

		logger.Error("event handler failed",
			"event_id", event.ID,
			"request_id", events.CorrelationID(event),
			"error", err)

		if errors.Is(err, events.ErrMalformedPayload) || !msg.Nackable() {
			msg.Ack()
			continue
		}
		msg.Nack()
	}
}

// decode rebuilds the event envelope from a received message. Messages sent
// by other producers may lack the metadata; they get a fresh id.
func decode(topic string, msg *pubsub.Message) *events.Event {
	event := &events.Event{
		Topic:   topic,
		Payload: msg.Body,
	}

	if id, err := uuid.Parse(msg.Metadata[metaEventID]); err == nil {
		event.ID = id
	} else {
		event.ID = uuid.New()
	}
	if created, err := time.Parse(time.RFC3339Nano, msg.Metadata[metaCreatedAt]); err == nil {
		event.CreatedAt = created
	} else {
		event.CreatedAt = time.Now().UTC()
	}

	return event
}

// Close stops the receive loops and shuts down every subscription and topic.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()

	var errs []error
	for _, sub := range b.subs {
		if err := sub.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for name, topic := range b.topics {
		if err := topic.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("topic %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
