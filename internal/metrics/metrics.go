// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus counters for the service. Construct once in
// main; promauto registers against the default registry.
type Metrics struct {
	RSVPSubmissions prometheus.Counter
	AuthFailures    prometheus.Counter
	GuestsCreated   prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	return &Metrics{
		RSVPSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guestlist_rsvp_submissions_total",
			Help: "Total number of successful RSVP roster submissions",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guestlist_auth_failures_total",
			Help: "Total number of rejected invitation code authentications",
		}),
		GuestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guestlist_guests_created_total",
			Help: "Total number of guests added to rosters",
		}),
	}
}
