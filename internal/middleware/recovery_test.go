package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmorales-dev/estudio-backend/internal/middleware"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler gone wrong")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/get-content", nil)

	require.NotPanics(t, func() {
		middleware.PanicRecovery(metricsManager)(next).ServeHTTP(rr, req)
	})
}

func TestPanicRecovery_nilMetrics(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler gone wrong")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/get-content", nil)

	assert.NotPanics(t, func() {
		middleware.PanicRecovery(nil)(next).ServeHTTP(rr, req)
	})
}
