package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDerivation(t *testing.T) {
	success := testutil.ToFloat64(DerivationsTotal.WithLabelValues("success"))
	failure := testutil.ToFloat64(DerivationsTotal.WithLabelValues("error"))

	RecordDerivation(2*time.Millisecond, nil)
	RecordDerivation(time.Millisecond, errors.New("boom"))

	assert.Equal(t, success+1, testutil.ToFloat64(DerivationsTotal.WithLabelValues("success")))
	assert.Equal(t, failure+1, testutil.ToFloat64(DerivationsTotal.WithLabelValues("error")))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(true)
	RecordCacheLookup(false)

	assert.Equal(t, hits+2, testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+1, testutil.ToFloat64(CacheRequestsTotal.WithLabelValues("miss")))
}

func TestRecordSnapshotPublish(t *testing.T) {
	failed := testutil.ToFloat64(SnapshotPublishTotal.WithLabelValues("error"))
	RecordSnapshotPublish(errors.New("unreachable"))
	assert.Equal(t, failed+1, testutil.ToFloat64(SnapshotPublishTotal.WithLabelValues("error")))
}

func TestMiddleware_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/widgets/{id}", "418"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/widgets/{id}", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsInFlight))
}

func TestMiddleware_UnroutedPath(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/raw", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/raw", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/raw", "200")))
}
