package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dshills/orderdesk/pkg/types"
)

const namespace = "orderdesk"

// OrderMetrics counts order outcomes on a private registry. It satisfies
// ordering.Recorder.
type OrderMetrics struct {
	registry *prometheus.Registry

	Created     prometheus.Counter
	Failures    *prometheus.CounterVec
	TotalAmount prometheus.Histogram
}

// NewOrderMetrics registers the order collectors plus the Go and process
// collectors on a fresh registry.
func NewOrderMetrics() *OrderMetrics {
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders persisted.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_failures_total",
		Help:      "Total number of order creation failures by reason.",
	}, []string{"reason"})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total_amount",
		Help:      "Order grand totals.",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 50000, 100000},
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		created, failures, amount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &OrderMetrics{
		registry:    reg,
		Created:     created,
		Failures:    failures,
		TotalAmount: amount,
	}
}

// Registry exposes the underlying registry for handlers and tests
func (m *OrderMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *OrderMetrics) OrderCreated(total types.Money) {
	m.Created.Inc()
	m.TotalAmount.Observe(total.Amount())
}

func (m *OrderMetrics) OrderFailed(reason string) {
	m.Failures.WithLabelValues(reason).Inc()
}
