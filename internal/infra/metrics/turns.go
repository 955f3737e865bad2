package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(turnsTotal, turnFailures, sessionsStarted)
}

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Completed turns per stage.",
		},
		[]string{"stage"},
	)

	turnFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turn_failures_total",
			Help: "Turns that surfaced a failure to the user, by kind (ai|unexpected).",
		},
		[]string{"kind"},
	)

	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_started_total",
			Help: "Count of coaching sessions started.",
		},
	)
)

func IncTurn(stage string)       { turnsTotal.WithLabelValues(norm(stage)).Inc() }
func IncTurnFailure(kind string) { turnFailures.WithLabelValues(norm(kind)).Inc() }
func IncSessionStarted()         { sessionsStarted.Inc() }
