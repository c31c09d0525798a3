package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveLookup("issue", 20*time.Millisecond, OutcomeSuccess)
	pr.ObserveRequest("/api/insight/issue", http.StatusOK, 25*time.Millisecond)
	pr.ObserveRequest("/api/insight/issue", http.StatusOK, 25*time.Millisecond)
	pr.IncRefresh(true)
	pr.IncRefresh(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.requests.WithLabelValues("/api/insight/issue", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.refreshes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.refreshes.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(pr.lookupDuration))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveLookup("activity", time.Millisecond, "not_found")

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `insight_gateway_lookup_duration_seconds_count{lookup="activity",outcome="not_found"} 1`)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveLookup("issue", time.Second, OutcomeSuccess)
		pr.ObserveRequest("/", 200, time.Second)
		pr.IncRefresh(true)
	})

	var noop Recorder = NoopRecorder{}
	assert.NotPanics(t, func() { noop.ObserveLookup("issue", time.Second, OutcomeSuccess) })
}
