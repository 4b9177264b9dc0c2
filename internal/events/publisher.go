package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

// OrderPublisher encodes order events onto a watermill publisher
type OrderPublisher struct {
	pub    message.Publisher
	logger *zap.Logger
}

// NewOrderPublisher wraps pub. A nil logger disables logging.
func NewOrderPublisher(pub message.Publisher, logger *zap.Logger) *OrderPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPublisher{pub: pub, logger: logger}
}

// PublishOrderCreated publishes an OrderCreated event for o
func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, o *domain.Order, total types.Money) error {
	event := NewOrderCreated(o, total)
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", TopicOrderCreated, err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("order_number", event.OrderNumber)
	msg.SetContext(ctx)

	if err := p.pub.Publish(TopicOrderCreated, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TopicOrderCreated, err)
	}
	p.logger.Debug("event published",
		zap.String("topic", TopicOrderCreated),
		zap.String("message_uuid", msg.UUID),
		zap.String("order_number", event.OrderNumber))
	return nil
}

// FanOut publishes every message to each of its publishers in order
type FanOut []message.Publisher

func (f FanOut) Publish(topic string, messages ...*message.Message) error {
	var errs []error
	for _, pub := range f {
		// each publisher acks independently, so hand out copies
		copies := make([]*message.Message, len(messages))
		for i, m := range messages {
			copies[i] = m.Copy()
		}
		if err := pub.Publish(topic, copies...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f FanOut) Close() error {
	var errs []error
	for _, pub := range f {
		if err := pub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
