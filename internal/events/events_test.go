package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/orderdesk/internal/domain"
	"github.com/dshills/orderdesk/pkg/types"
)

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()
	c, err := domain.NewCustomer(domain.CustomerParams{ID: "C1", Code: "C001", Name: "Taipei Trading"})
	require.NoError(t, err)
	sp, err := domain.NewSalesperson(domain.SalespersonParams{ID: "S1", Code: "S01", Name: "Wang", Active: true})
	require.NoError(t, err)
	p, err := domain.NewProduct(domain.ProductParams{ID: "P1", Name: "Diesel", Price: types.NewMoney(32.5), Unit: "litre"})
	require.NoError(t, err)
	w, err := domain.NewWarehouse(domain.WarehouseParams{ID: "W1", Name: "Main", Location: "North", Active: true})
	require.NoError(t, err)

	n, err := types.NewOrderNumber("SO-1")
	require.NoError(t, err)
	o, err := domain.NewOrder(n, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), c, sp)
	require.NoError(t, err)
	item, err := domain.NewOrderItem(p, 2, w, "")
	require.NoError(t, err)
	require.NoError(t, o.AddItem(item))
	return o
}

func newBus(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestNewOrderCreated(t *testing.T) {
	o := newTestOrder(t)
	event := NewOrderCreated(o, types.NewMoney(65))

	assert.Equal(t, "SO-1", event.OrderNumber)
	assert.Equal(t, "C1", event.CustomerID)
	assert.Equal(t, "S1", event.SalespersonID)
	assert.Equal(t, 1, event.ItemCount)
	assert.Equal(t, 65.0, event.TotalMoney().Amount())

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total":"65"`)
}

func TestOrderPublisher_PublishOrderCreated(t *testing.T) {
	bus := newBus(t)
	ctx := context.Background()

	ch, err := bus.Subscribe(ctx, TopicOrderCreated)
	require.NoError(t, err)

	pub := NewOrderPublisher(bus, nil)
	require.NoError(t, pub.PublishOrderCreated(ctx, newTestOrder(t), types.NewMoney(257.25)))

	msg := receive(t, ch)
	assert.Equal(t, "SO-1", msg.Metadata.Get("order_number"))

	event, err := decodeOrderCreated(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, "SO-1", event.OrderNumber)
	assert.Equal(t, 257.25, event.TotalMoney().Amount())
	assert.True(t, event.OrderDate.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
}

type failingPublisher struct{ closed bool }

func (f *failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (f *failingPublisher) Close() error {
	f.closed = true
	return nil
}

func TestFanOut(t *testing.T) {
	ctx := context.Background()
	first := newBus(t)
	second := newBus(t)

	ch1, err := first.Subscribe(ctx, TopicOrderCreated)
	require.NoError(t, err)
	ch2, err := second.Subscribe(ctx, TopicOrderCreated)
	require.NoError(t, err)

	failing := &failingPublisher{}
	fan := FanOut{first, failing, second}

	err = fan.Publish(TopicOrderCreated, message.NewMessage("id-1", []byte(`{}`)))
	assert.ErrorContains(t, err, "broker down")

	// Healthy publishers still receive the message
	assert.Equal(t, "id-1", receive(t, ch1).UUID)
	assert.Equal(t, "id-1", receive(t, ch2).UUID)

	require.NoError(t, FanOut{failing}.Close())
	assert.True(t, failing.closed)
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, watermill.NopLogger{})
	assert.Error(t, err)
}

// memoryBalances records increments keyed by id
type memoryBalances struct {
	mu          sync.Mutex
	customers   map[string]float64
	salespeople map[string]float64
	failFor     string
}

func newMemoryBalances() *memoryBalances {
	return &memoryBalances{customers: map[string]float64{}, salespeople: map[string]float64{}}
}

func (m *memoryBalances) AdjustCustomerBalance(_ context.Context, id string, delta types.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.failFor {
		return errors.New("not found")
	}
	m.customers[id] = types.NewMoney(m.customers[id]).Add(delta).Amount()
	return nil
}

func (m *memoryBalances) AdjustSalespersonSales(_ context.Context, id string, delta types.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salespeople[id] = types.NewMoney(m.salespeople[id]).Add(delta).Amount()
	return nil
}

func (m *memoryBalances) customer(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customers[id]
}

func (m *memoryBalances) salesperson(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.salespeople[id]
}

func TestBalanceProjector(t *testing.T) {
	bus := newBus(t)
	store := newMemoryBalances()
	ctx, cancel := context.WithCancel(context.Background())

	projector := NewBalanceProjector(bus, store, nil)
	require.NoError(t, projector.Start(ctx))

	pub := NewOrderPublisher(bus, nil)
	order := newTestOrder(t)
	require.NoError(t, pub.PublishOrderCreated(ctx, order, types.NewMoney(65)))
	require.NoError(t, pub.PublishOrderCreated(ctx, order, types.NewMoney(10.25)))

	assert.Eventually(t, func() bool {
		return store.customer("C1") == 75.25 && store.salesperson("S1") == 75.25
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	projector.Wait()
}

func TestBalanceProjector_FailuresAreAcked(t *testing.T) {
	bus := newBus(t)
	store := newMemoryBalances()
	store.failFor = "C1"
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	projector := NewBalanceProjector(bus, store, nil)
	require.NoError(t, projector.Start(ctx))

	// Malformed payload is dropped without blocking later messages
	require.NoError(t, bus.Publish(TopicOrderCreated, message.NewMessage("bad", []byte("not json"))))

	pub := NewOrderPublisher(bus, nil)
	require.NoError(t, pub.PublishOrderCreated(ctx, newTestOrder(t), types.NewMoney(65)))

	// The customer update fails but the salesperson update still lands
	assert.Eventually(t, func() bool {
		return store.salesperson("S1") == 65
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, store.customer("C1"))
}
