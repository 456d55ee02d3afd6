package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestMetrics builds a Metrics instance against a fresh registry so
// tests do not collide on the default global registry.
func createTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "test",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "test",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "test",
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		InvitationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "test",
				Subsystem: "events",
				Name:      "invitations_total",
				Help:      "Total number of invitation records added",
			},
			[]string{"kind"},
		),
		ResponsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "test",
				Subsystem: "events",
				Name:      "responses_total",
				Help:      "Total number of RSVP responses recorded",
			},
			[]string{"kind", "status"},
		),
		AuthEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "test",
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Total number of auth events",
			},
			[]string{"event"},
		),
	}

	return m, reg
}

func TestRecordHTTPRequest(t *testing.T) {
	m, _ := createTestMetrics(t)

	m.RecordHTTPRequest("GET", "/api/v1/events", 200, 50*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/events", 200, 30*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/events", 401, 10*time.Millisecond)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/events", "200"))
	assert.Equal(t, float64(2), count)

	count = testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/events", "401"))
	assert.Equal(t, float64(1), count)
}

func TestRecordInvitations(t *testing.T) {
	m, _ := createTestMetrics(t)

	m.RecordInvitations("attendee", 3)
	m.RecordInvitations("attendee", 2)
	m.RecordInvitations("collaborator", 1)
	m.RecordInvitations("attendee", 0) // no-op

	assert.Equal(t, float64(5), testutil.ToFloat64(m.InvitationsTotal.WithLabelValues("attendee")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.InvitationsTotal.WithLabelValues("collaborator")))
}

func TestRecordResponse(t *testing.T) {
	m, _ := createTestMetrics(t)

	m.RecordResponse("attendee", "Going")
	m.RecordResponse("attendee", "Going")
	m.RecordResponse("attendee", "Not Going")
	m.RecordResponse("collaborator", "Yes")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ResponsesTotal.WithLabelValues("attendee", "Going")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ResponsesTotal.WithLabelValues("attendee", "Not Going")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ResponsesTotal.WithLabelValues("collaborator", "Yes")))
}

func TestRecordAuthEvent(t *testing.T) {
	m, _ := createTestMetrics(t)

	m.RecordAuthEvent("login_success")
	m.RecordAuthEvent("login_failed")
	m.RecordAuthEvent("login_failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login_success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AuthEventsTotal.WithLabelValues("login_failed")))
}

func TestInFlightGauge(t *testing.T) {
	m, reg := createTestMetrics(t)

	m.HTTPRequestsInFlight.Inc()
	m.HTTPRequestsInFlight.Inc()
	m.HTTPRequestsInFlight.Dec()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsInFlight))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
