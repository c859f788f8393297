// Package eventbus wraps a watermill pub/sub behind the narrow interface
// the modules publish through. The collaborators here (board UI adapters,
// persistence triggers) live in-process, so the GoChannel pub/sub is used
// rather than an external broker.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus publishes JSON payloads to topics and hands out subscriptions.
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

type eventBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates an in-process event bus.
func NewEventBus(logger *slog.Logger) EventBus {
	watermillLogger := watermill.NewSlogLogger(logger)

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
		},
		watermillLogger,
	)

	return &eventBus{
		pubSub: pubSub,
		logger: logger,
	}
}

func (eb *eventBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)

	eb.logger.Debug("Publishing message",
		slog.String("topic", topic),
		slog.String("message_id", msg.UUID),
	)

	if err := eb.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := eb.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	return ch, nil
}

func (eb *eventBus) Close() error {
	return eb.pubSub.Close()
}
