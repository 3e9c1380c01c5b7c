package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bolao/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrument_CountsRequestsAndServerErrors(t *testing.T) {
	m := metrics.Registry("bolao")
	s := &Server{metrics: m}

	r := chi.NewRouter()
	r.Use(s.instrument)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	errorsBefore := testutil.ToFloat64(m.Errors.WithLabelValues("http"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Only the 5xx response lands in the error counter; both land in the
	// per-route request counter.
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(m.Errors.WithLabelValues("http")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/boom", "500")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/ok", "200")))
}
