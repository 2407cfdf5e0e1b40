package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	gatewayRequests *prometheus.CounterVec
	slotsResolved   *prometheus.HistogramVec
	bookingsTotal   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		gatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowbook",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total HighLevel gateway requests",
		}, []string{"op", "status"}),
		slotsResolved: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glowbook",
			Subsystem: "availability",
			Name:      "slots_resolved",
			Help:      "Number of bookable slots returned per resolution",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}, []string{"windowed"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowbook",
			Subsystem: "bookings",
			Name:      "commits_total",
			Help:      "Booking commit attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.gatewayRequests, m.slotsResolved, m.bookingsTotal)
	return m
}

func (m *BookingMetrics) ObserveGatewayRequest(op, status string) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(op, status).Inc()
}

func (m *BookingMetrics) ObserveSlotsResolved(count int, windowed bool) {
	if m == nil {
		return
	}
	label := "false"
	if windowed {
		label = "true"
	}
	m.slotsResolved.WithLabelValues(label).Observe(float64(count))
}

func (m *BookingMetrics) ObserveCommit(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}
