package prometheus

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Count of processed commands",
		},
		[]string{"command", "status"},
	)
	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_command_duration_seconds",
			Help:    "Time taken to process command",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"command"},
	)
	ActiveDrafts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_drafts",
			Help: "Current number of users composing a draft",
		},
	)
	FlowOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_draft_flow_outcomes_total",
			Help: "Count of finished draft flows by outcome",
		},
		[]string{"outcome"},
	)

	APIFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_api_failures_total",
			Help: "Count of failed API calls",
		},
		[]string{"method", "kind"},
	)
	APIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_api_call_duration_seconds",
			Help:    "Latency of core API calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method"},
	)

	MessagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_sent_total",
			Help: "Count of sent messages",
		},
		[]string{"type"}, // text, keyboard, edit
	)
)

func Init() {
	prometheus.MustRegister(
		CommandCounter,
		CommandDuration,
		ActiveDrafts,
		FlowOutcomes,
		APIFailures,
		APIDuration,
		MessagesSent,
	)
}
