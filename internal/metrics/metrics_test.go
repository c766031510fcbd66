package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code-execution-sandbox/internal/sandbox"
)

func TestPublisherRecordsExecutions(t *testing.T) {
	counter := ExecutionsTotal.WithLabelValues("python", "TimeLimitExceeded")
	before := testutil.ToFloat64(counter)

	err := Publisher{}.Publish(&sandbox.ExecutionEvent{
		ID:       "abc",
		Language: "python",
		Status:   "TimeLimitExceeded",
		Duration: 5 * time.Second,
	})

	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Positive(t, testutil.CollectAndCount(ExecutionDuration, "sandbox_execution_duration_seconds"))
}

func TestMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Middleware)

	router.HandleFunc("/api/languages/{lang}/template", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	notFound := RequestsTotal.WithLabelValues(http.MethodGet, "/api/languages/{lang}/template", "4xx")
	ok := RequestsTotal.WithLabelValues(http.MethodGet, "/api/health", "2xx")

	notFoundBefore := testutil.ToFloat64(notFound)
	okBefore := testutil.ToFloat64(ok)

	for _, path := range []string{"/api/languages/ruby/template", "/api/languages/go/template", "/api/health"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, notFoundBefore+2, testutil.ToFloat64(notFound))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
}

func TestMiddlewareUnmatched(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Middleware)
	router.NotFoundHandler = Middleware(http.NotFoundHandler())
	router.MethodNotAllowedHandler = Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))

	router.HandleFunc("/api/execute", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodPost)

	missing := RequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "4xx")
	before := testutil.ToFloat64(missing)

	for _, path := range []string{"/api/missing", "/api/execute"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.GreaterOrEqual(t, recorder.Code, http.StatusBadRequest)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(missing))
}

func TestRegisterInFlight(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, RegisterInFlight(registry, func() int64 { return 3 }))

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	assert.Equal(t, "sandbox_executions_in_flight", families[0].GetName())
	assert.Equal(t, float64(3), families[0].GetMetric()[0].GetGauge().GetValue())

	assert.Error(t, RegisterInFlight(registry, func() int64 { return 0 }), "registering twice should fail")
}
