package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingConflicts  prometheus.Counter
	BookingsCancelled *prometheus.CounterVec
	BookingsPurged    prometheus.Counter
	MailSent          prometheus.Counter
	MailFailed        prometheus.Counter
}

// New registers the service metrics with reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "salon_bookings_created_total",
			Help: "Total number of bookings created",
		}),

		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "salon_booking_conflicts_total",
			Help: "Total number of booking attempts rejected for slot conflicts",
		}),

		BookingsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_bookings_cancelled_total",
			Help: "Total number of bookings cancelled, by initiator",
		}, []string{"by"}),

		BookingsPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "salon_bookings_purged_total",
			Help: "Total number of soft-deleted bookings permanently removed",
		}),

		MailSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "salon_mail_sent_total",
			Help: "Total number of notification mails sent",
		}),

		MailFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "salon_mail_failed_total",
			Help: "Total number of notification mails that failed to send",
		}),
	}
}
