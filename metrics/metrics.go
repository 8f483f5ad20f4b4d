// Package metrics provides Prometheus observability metrics for the reservation controller.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// RequestsTotal counts reservation requests by outcome (OK, REPROG, NEG, NEG_EXTEMP).
var RequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "controller",
	Name:      "requests_total",
	Help:      "Reservation requests by admission outcome",
}, []string{"outcome"})

// DeniedTotal counts denials by reason.
var DeniedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "controller",
	Name:      "denied_total",
	Help:      "Denied reservation requests by reason",
}, []string{"reason"})

// PeopleAdmittedTotal tracks people admitted across all reservations.
var PeopleAdmittedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "controller",
	Name:      "people_admitted_total",
	Help:      "Total people in admitted reservations",
})

// OccupancyByHour tracks committed people per simulated hour.
var OccupancyByHour = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "controller",
	Name:      "occupancy_people",
	Help:      "People committed to each simulated hour",
}, []string{"hour"})

// CurrentHour tracks the simulated clock.
var CurrentHour = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "clock",
	Name:      "current_hour",
	Help:      "Current simulated hour",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// RegistrationsTotal counts REG messages, split by new and repeated agents.
var RegistrationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "controller",
	Name:      "registrations_total",
	Help:      "Agent registrations by kind",
}, []string{"kind"})

// DroppedRequestsTotal counts requests from agents that never registered.
var DroppedRequestsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "controller",
	Name:      "dropped_requests_total",
	Help:      "Requests dropped because the agent is not registered",
})

// ProtocolErrorsTotal tracks discarded inbound lines by error type.
var ProtocolErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total discarded protocol lines by error type",
}, []string{"error_type"})

// TransportErrorsTotal counts replies that could not be delivered.
var TransportErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "transport",
	Name:      "send_errors_total",
	Help:      "Replies that could not be delivered, by message type",
}, []string{"message"})

// DecisionDurationSeconds tracks time spent deciding one request under the lock.
var DecisionDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "controller",
	Name:      "decision_duration_seconds",
	Help:      "Time taken to decide one reservation request",
	Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetControllerGauges clears the per-run gauges. Call this when a new
// controller state is created.
func ResetControllerGauges() {
	OccupancyByHour.Reset()
	CurrentHour.Set(0)
}

// SetOccupancy records the committed people for hour.
func SetOccupancy(hour, people int) {
	OccupancyByHour.WithLabelValues(strconv.Itoa(hour)).Set(float64(people))
}
