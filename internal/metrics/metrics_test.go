package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m, err := New("")
	require.Nil(t, err)

	m.ObserveSarimaFit("optimized", 20*time.Millisecond)
	m.ObserveSarimaFit("optimized", 10*time.Millisecond)
	m.ObserveSarimaFit("defaulted", time.Millisecond)
	m.ObserveRegressionFit(nil)
	m.ObserveRegressionFit(errors.New("singular"))
	m.ObserveForecast(6)
	m.ObserveAnalyze(OutcomeSuccess)
	m.ObserveAnalyze(OutcomeInvalidInput)
	m.ObserveAnalyze(OutcomeInvalidInput)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sarimaFitsTotal.WithLabelValues("optimized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sarimaFitsTotal.WithLabelValues("defaulted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.regressionFitsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.regressionFitsTotal.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyzeRequestsTotal.WithLabelValues(OutcomeInvalidInput)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sarimaFitDuration))
}

func TestHandler(t *testing.T) {
	m, err := New("test")
	require.Nil(t, err)
	m.ObserveAnalyze(OutcomeSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.Nil(t, err)
	assert.Contains(t, string(body), `test_http_analyze_requests_total{outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveSarimaFit("optimized", time.Second)
	m.ObserveRegressionFit(nil)
	m.ObserveForecast(1)
	m.ObserveAnalyze(OutcomeSuccess)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
