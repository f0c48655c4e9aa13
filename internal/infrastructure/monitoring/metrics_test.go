package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nutriplan/client/internal/domain/recipe"
)

func TestMetricsCollector_RecordRequest(t *testing.T) {
	m := NewMetricsCollector(zaptest.NewLogger(t))

	m.RecordRequest("/api/v1/recipes", "POST", 201, 120*time.Millisecond)
	m.RecordRequest("/api/v1/recipes", "POST", 201, 80*time.Millisecond)
	m.RecordRequest("/api/v1/recipes", "POST", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gatewayRequestsTotal.WithLabelValues("/api/v1/recipes", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequestsTotal.WithLabelValues("/api/v1/recipes", "POST", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.gatewayRequestDuration))
}

func TestMetricsCollector_RateLimitedAndEvents(t *testing.T) {
	m := NewMetricsCollector(zaptest.NewLogger(t))

	m.RecordRateLimited("/api/v1/ingredients")
	handler := m.EventHandler()
	require.NoError(t, handler(recipe.DraftResetEvent{ResetAt: time.Now()}))
	require.NoError(t, handler(recipe.DraftResetEvent{ResetAt: time.Now()}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimitedTotal.WithLabelValues("/api/v1/ingredients")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.domainEventsTotal.WithLabelValues("recipe.draft.reset")))
}

func TestMetricsCollector_WriteTextfile(t *testing.T) {
	m := NewMetricsCollector(zaptest.NewLogger(t))
	m.RecordRequest("/api/v1/advices", "GET", 200, time.Millisecond)

	path := filepath.Join(t.TempDir(), "nutriplan.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "nutriplan_gateway_requests_total"))
}

func TestTelemetry_MetricsOnly(t *testing.T) {
	m := NewMetricsCollector(zaptest.NewLogger(t))

	tel, err := NewTelemetry(TelemetryConfig{ServiceName: "nutriplan-test"}, m.Registry(), zaptest.NewLogger(t))
	require.NoError(t, err)

	counter, err := tel.MeterProvider().Meter("test").Int64Counter("probe_calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "probe_calls_total")

	ctx, span := tel.StartCommandSpan(context.Background(), "recipes list")
	span.End()
	assert.Empty(t, TraceIDFromContext(ctx), "no-op tracer carries no trace id")

	assert.NoError(t, tel.Shutdown(context.Background()))
}
