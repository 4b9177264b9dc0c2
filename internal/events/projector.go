package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/pkg/types"
)

// BalanceStore applies running-total increments
type BalanceStore interface {
	AdjustCustomerBalance(ctx context.Context, id string, delta types.Money) error
	AdjustSalespersonSales(ctx context.Context, id string, delta types.Money) error
}

// BalanceProjector keeps stored customer balances and salesperson sales in
// step with OrderCreated events. Failed messages are logged and acked; they
// are not retried.
type BalanceProjector struct {
	sub    message.Subscriber
	store  BalanceStore
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewBalanceProjector(sub message.Subscriber, store BalanceStore, logger *zap.Logger) *BalanceProjector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceProjector{sub: sub, store: store, logger: logger}
}

// Start subscribes and processes messages in the background until ctx is
// cancelled or the subscriber closes. Call Wait to block until it stops.
func (p *BalanceProjector) Start(ctx context.Context) error {
	messages, err := p.sub.Subscribe(ctx, TopicOrderCreated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicOrderCreated, err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for msg := range messages {
			p.handle(msg)
		}
		p.logger.Debug("balance projector stopped")
	}()
	return nil
}

// Wait blocks until the processing loop has exited
func (p *BalanceProjector) Wait() {
	p.wg.Wait()
}

func (p *BalanceProjector) handle(msg *message.Message) {
	defer msg.Ack()

	event, err := decodeOrderCreated(msg.Payload)
	if err != nil {
		p.logger.Error("dropping malformed event", zap.String("message_uuid", msg.UUID), zap.Error(err))
		return
	}

	ctx := msg.Context()
	total := event.TotalMoney()
	if err := p.store.AdjustCustomerBalance(ctx, event.CustomerID, total); err != nil {
		p.logger.Error("failed to adjust customer balance",
			zap.String("order_number", event.OrderNumber),
			zap.String("customer_id", event.CustomerID),
			zap.Error(err))
	}
	if err := p.store.AdjustSalespersonSales(ctx, event.SalespersonID, total); err != nil {
		p.logger.Error("failed to adjust salesperson sales",
			zap.String("order_number", event.OrderNumber),
			zap.String("salesperson_id", event.SalespersonID),
			zap.Error(err))
	}
}
