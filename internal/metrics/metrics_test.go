package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/orderdesk/internal/ordering"
	"github.com/dshills/orderdesk/pkg/types"
)

var _ ordering.Recorder = (*OrderMetrics)(nil)

func TestOrderMetrics_Counts(t *testing.T) {
	m := NewOrderMetrics()

	m.OrderCreated(types.NewMoney(257.25))
	m.OrderCreated(types.NewMoney(1500))
	m.OrderFailed(ordering.ReasonNotFound)
	m.OrderFailed(ordering.ReasonNotFound)
	m.OrderFailed(ordering.ReasonPersistence)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Created))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Failures.WithLabelValues(ordering.ReasonNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues(ordering.ReasonPersistence)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TotalAmount))
}

func TestRouter_Metrics(t *testing.T) {
	m := NewOrderMetrics()
	m.OrderCreated(types.NewMoney(245))

	srv := httptest.NewServer(m.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "orderdesk_orders_created_total 1"))
	assert.Contains(t, string(body), "orderdesk_order_total_amount_sum 245")
}

func TestRouter_Healthz(t *testing.T) {
	m := NewOrderMetrics()

	rec := httptest.NewRecorder()
	m.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNewServer(t *testing.T) {
	srv := NewOrderMetrics().NewServer(":0")
	assert.Equal(t, ":0", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
