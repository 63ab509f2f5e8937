package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "medibook"

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingSlotConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_slot_conflict_total",
			Help:      "Count of create or reactivation attempts rejected because the slot was taken.",
		},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_transition_total",
			Help:      "Count of booking status changes by source and target status.",
		},
		[]string{"from", "to"},
	)

	bookingCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by actor role.",
		},
		[]string{"role"},
	)

	bookingExport = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_export_total",
			Help:      "Count of booking exports by format and trigger.",
		},
		[]string{"format", "trigger"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingSlotConflict, bookingTransition, bookingCancelled, bookingExport)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncSlotConflict() {
	bookingSlotConflict.Inc()
}

func IncStatusTransition(from, to string) {
	bookingTransition.WithLabelValues(from, to).Inc()
}

func IncBookingCancelled(role string) {
	bookingCancelled.WithLabelValues(role).Inc()
}

func IncBookingExport(format, trigger string) {
	bookingExport.WithLabelValues(format, trigger).Inc()
}
