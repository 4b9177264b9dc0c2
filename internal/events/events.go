package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

// TopicOrderCreated carries OrderCreated events
const TopicOrderCreated = "orders.created"

// OrderCreated is published once an order has been stored
type OrderCreated struct {
	OrderNumber   string          `json:"order_number"`
	CustomerID    string          `json:"customer_id"`
	SalespersonID string          `json:"salesperson_id"`
	Total         decimal.Decimal `json:"total"`
	OrderDate     time.Time       `json:"order_date"`
	ItemCount     int             `json:"item_count"`
}

// NewOrderCreated builds the event for a stored order and its total
func NewOrderCreated(o *domain.Order, total types.Money) OrderCreated {
	return OrderCreated{
		OrderNumber:   o.ID(),
		CustomerID:    o.Customer().ID(),
		SalespersonID: o.Salesperson().ID(),
		Total:         decimal.NewFromFloat(total.Amount()).Round(2),
		OrderDate:     o.Date().UTC(),
		ItemCount:     len(o.Items()),
	}
}

// TotalMoney returns the event total as Money
func (e OrderCreated) TotalMoney() types.Money {
	return types.NewMoney(e.Total.InexactFloat64())
}

func decodeOrderCreated(payload []byte) (OrderCreated, error) {
	var e OrderCreated
	if err := json.Unmarshal(payload, &e); err != nil {
		return OrderCreated{}, fmt.Errorf("failed to decode %s event: %w", TopicOrderCreated, err)
	}
	return e, nil
}
