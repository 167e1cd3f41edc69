package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/domain/recipe"
)

func TestEventRecorder_CountsEvents(t *testing.T) {
	// Arrange
	metrics := NewMetrics()
	meters, err := NewMeterProvider(metrics.Registry())
	require.NoError(t, err)
	t.Cleanup(func() { meters.Shutdown(context.Background()) })

	recorder, err := NewEventRecorder(metrics, zap.NewNop())
	require.NoError(t, err)

	// Act
	recorder.Publish(context.Background(),
		pantry.NewProductChanged("eggs", pantry.ActionConsumed, 3),
		pantry.NewProductChanged("milk", pantry.ActionConsumed, 0),
		menu.NewMealCooked(recipe.MealSlotLunch, "Soup", false),
	)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.domainEventsTotal.WithLabelValues("pantry.product_changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.mealsCookedTotal.WithLabelValues("lunch", "false")))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kitchen_domain_events_total")
	assert.Contains(t, rec.Body.String(), "kitchen_pantry_changes")
}

func TestMetrics_HTTP(t *testing.T) {
	metrics := NewMetrics()

	done := metrics.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.httpInFlight))
	done()

	metrics.RecordHTTPRequest(http.MethodGet, "/api/pantry", http.StatusOK, 20*time.Millisecond)
	metrics.RecordRateLimited()

	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/api/pantry", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rateLimited))
}

func TestLoggerFromContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.NotNil(t, LoggerFromContext(ctx, zap.NewNop()))
}

func TestTracingDisabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, err)
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
