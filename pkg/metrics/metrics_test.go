package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/products/pkg/metrics"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	mux := chi.NewRouter()
	mux.Use(metrics.Middleware())
	mux.Delete("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodDelete, "/products/{id}", "200"))

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/"+id, nil))
	}

	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues(http.MethodDelete, "/products/{id}", "200"))
	assert.Equal(t, 3.0, after-before)
}

func TestRecordConnectAttempt(t *testing.T) {
	ok := testutil.ToFloat64(metrics.DBConnectAttempts.WithLabelValues("success"))
	failed := testutil.ToFloat64(metrics.DBConnectAttempts.WithLabelValues("failure"))

	metrics.RecordConnectAttempt(nil)
	metrics.RecordConnectAttempt(errors.New("refused"))
	metrics.RecordConnectAttempt(errors.New("refused"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DBConnectAttempts.WithLabelValues("success"))-ok)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DBConnectAttempts.WithLabelValues("failure"))-failed)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	metrics.ObserveDBQuery("select", time.Now())

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "products_db_query_duration_seconds")
}
