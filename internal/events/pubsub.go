package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// BusConfig selects the transport: kafka when brokers are set, otherwise an
// in-process go channel
type BusConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
}

// Bus bundles the publisher and subscriber halves of the transport
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

func NewBus(cfg BusConfig, logger *slog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if len(cfg.KafkaBrokers) == 0 {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		return &Bus{Publisher: ch, Subscriber: ch}, nil
	}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   cfg.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:       cfg.KafkaBrokers,
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: cfg.ConsumerGroup,
	}, wmLogger)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("kafka subscriber: %w", err)
	}
	return &Bus{Publisher: publisher, Subscriber: subscriber}, nil
}

// Close closes both halves; for the go channel transport they are the same value
func (b *Bus) Close() error {
	err := b.Publisher.Close()
	if any(b.Subscriber) != any(b.Publisher) {
		if serr := b.Subscriber.Close(); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

// Handler processes one event. Failures are logged; the message is acked either way.
type Handler func(ctx context.Context, event *Event) error

// Consume subscribes to topic and feeds decoded events to handler until ctx is done
func Consume(ctx context.Context, sub message.Subscriber, topic string, handler Handler, logger *slog.Logger) error {
	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Error("Dropping undecodable event", "topic", topic, "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			if err := handler(msg.Context(), &event); err != nil {
				logger.Error("Event handler failed", "topic", topic, "event_id", event.ID, "error", err)
			}
			msg.Ack()
		}
	}()
	return nil
}
