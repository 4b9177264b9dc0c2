// Package metrics exposes Prometheus counters for order creation and an HTTP
// router serving them.
package metrics
