package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/internal/infrastructure/metrics"
)

func TestMetrics_ObserveYExpone(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveGateway("ListDocuments", metrics.OutcomeOK, 20*time.Millisecond)
	m.ObserveGateway("ListDocuments", metrics.OutcomeOK, 30*time.Millisecond)
	m.ObserveTransition("paletizado", "validado", metrics.OutcomeRejected)
	m.ObserveHTTP(http.MethodGet, "/nota-ingreso", http.StatusOK, time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "wms_ingresos_gateway_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `wms_ingresos_transitions_total{from="paletizado",outcome="rejected",to="validado"} 1`)
	assert.Contains(t, string(body), `wms_ingresos_gateway_requests_total{op="ListDocuments",outcome="ok"} 2`)
}

func TestMetrics_NilSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveGateway("x", metrics.OutcomeError, time.Second)
		m.ObserveTransition("a", "b", metrics.OutcomeOK)
		m.ObserveHTTP(http.MethodPost, "/", http.StatusCreated, time.Second)
	})
}
