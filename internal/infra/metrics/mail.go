package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(mailDeliveriesTotal) }

var mailDeliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mail_deliveries_total",
		Help: "Per-recipient delivery attempts, labeled by outcome and failure kind.",
	},
	[]string{"outcome", "kind"}, // outcome: 'ok'|'failed'; kind: '' | connect|auth|attachment_read|other
)

func IncMailDelivery(ok bool, kind string) {
	if ok {
		mailDeliveriesTotal.WithLabelValues("ok", "none").Inc()
		return
	}
	mailDeliveriesTotal.WithLabelValues("failed", norm(kind)).Inc()
}
