package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.ObserveDocument("processed")
	r.ObserveDocument("processed")
	r.ObserveDocument("skipped")
	r.ObserveEvents(5)
	r.ObserveEvents(0)
	r.ObserveAmbiguities(2)
	r.ObserveCache(true)
	r.ObserveCache(false)
	r.ObserveCache(false)
	r.ObserveRun(ResultOK, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.documents.WithLabelValues("processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.documents.WithLabelValues("skipped")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.events))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ambiguities))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(ResultOK)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.runDuration))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveDocument("processed")
		r.ObserveEvents(1)
		r.ObserveAmbiguities(1)
		r.ObserveCache(true)
		r.ObserveRun(ResultError, time.Second)
	})
	assert.Nil(t, r.Registry())
}

func TestHandler(t *testing.T) {
	r := NewRecorder(WithNamespace("test"))
	r.ObserveRun(ResultNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_analysis_runs_total{result="not_found"} 1`)
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder(WithBuckets([]float64{0.1, 1}))
	r.ObserveEvents(3)

	path := filepath.Join(t.TempDir(), "turni.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "turni_analysis_events_total 3")
}
