package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindCreated       = "booking_created"
	kindStatusChanged = "booking_status_changed"

	resultSent    = "sent"
	resultFailed  = "failed"
	resultSkipped = "skipped"
)

var notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "booking_notifications_total",
	Help: "Booking notification attempts by channel, kind and result",
}, []string{"channel", "kind", "result"})

func observe(channel, kind string, err error) {
	result := resultSent
	if err != nil {
		result = resultFailed
	}
	notificationsTotal.WithLabelValues(channel, kind, result).Inc()
}

func observeSkipped(channel, kind string) {
	notificationsTotal.WithLabelValues(channel, kind, resultSkipped).Inc()
}
