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

func TestMetrics_StorageObserver(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordStorageOperation("upload", 20*time.Millisecond, nil)
	m.RecordStorageOperation("upload", 30*time.Millisecond, errors.New("falhou"))
	m.RecordStorageOperation("delete", time.Millisecond, nil)
	m.RecordUploadedBytes(1024)
	m.RecordUploadedBytes(512)
	m.RecordBucketFallback(nil)
	m.RecordBucketFallback(errors.New("sem permissão"))
	m.RecordBucketFallback(errors.New("sem permissão"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storageErrors.WithLabelValues("upload")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.storageErrors.WithLabelValues("delete")))
	assert.Equal(t, 1536.0, testutil.ToFloat64(m.uploadedBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bucketFallbacks.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bucketFallbacks.WithLabelValues("failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.storageDuration))
}

func TestMetrics_SaleCreated(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordSaleCreated(true)
	m.RecordSaleCreated(false)
	m.RecordSaleCreated(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.salesCreated.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.salesCreated.WithLabelValues("false")))
}

func TestMetrics_InstrumentRoute(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	created := m.InstrumentRoute(http.MethodPost, "/api/sales", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	notFound := m.InstrumentUnmatched(http.NotFoundHandler())

	created.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/sales", nil))
	notFound.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nao/existe/123", nil))
	notFound.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/outra", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodPost, "/api/sales", "201")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.RecordSaleCreated(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ticket_sales_sales_created_total{receipt="false"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordStorageOperation("upload", time.Second, nil)
		m.RecordUploadedBytes(1)
		m.RecordBucketFallback(nil)
		m.RecordSaleCreated(true)
	})

	h := http.NotFoundHandler()
	assert.NotNil(t, m.InstrumentRoute(http.MethodGet, "/x", h))
	assert.NotNil(t, m.InstrumentUnmatched(h))
}
