package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketStepAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendees",
		Name:      "ticket_step_attempts_total",
		Help:      "Ticket step validations by outcome.",
	}, []string{"outcome"})

	FieldMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendees",
		Name:      "field_messages_total",
		Help:      "Validation messages attached to fields, by field kind.",
	}, []string{"kind"})

	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendees",
		Name:      "messages_processed_total",
		Help:      "Messages handled by the router, by handler and outcome.",
	}, []string{"handler", "outcome"})
)

func Outcome(passed bool) string {
	if passed {
		return "passed"
	}
	return "blocked"
}
