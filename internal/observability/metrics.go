package observability

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts what happens on the public booking flow.
type BookingMetrics struct {
	availabilityTotal   *prometheus.CounterVec
	bookingsTotal       *prometheus.CounterVec
	unmatchedTotal      prometheus.Counter
	availabilityLatency prometheus.Histogram
	mailPublishTotal    *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "availability_requests_total",
			Help:      "Availability lookups by outcome",
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		unmatchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "unmatched_appointments_total",
			Help:      "Appointments whose start time is not on the day's slot grid",
		}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "barber",
			Subsystem: "booking",
			Name:      "availability_latency_seconds",
			Help:      "Time spent computing a day's slots",
			Buckets:   prometheus.DefBuckets,
		}),
		mailPublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Subsystem: "mail",
			Name:      "published_total",
			Help:      "Mail messages handed to the queue",
		}, []string{"type", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.bookingsTotal, m.unmatchedTotal, m.availabilityLatency, m.mailPublishTotal)
	return m
}

func (m *BookingMetrics) ObserveAvailability(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(outcome).Inc()
	m.availabilityLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveUnmatched(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unmatchedTotal.Add(float64(n))
}

func (m *BookingMetrics) ObserveMailPublish(mailType string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.mailPublishTotal.WithLabelValues(mailType, status).Inc()
}
