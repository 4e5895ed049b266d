package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_parse_requests_total",
			Help: "Total number of parse requests by outcome",
		},
		[]string{"status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "voice_agent_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	IntentPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_intent_predictions_total",
			Help: "Total number of intent predictions by label",
		},
		[]string{"intent"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_cache_lookups_total",
			Help: "Parse cache lookups by result",
		},
		[]string{"result"},
	)

	EscalationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_agent_escalations_total",
			Help: "Escalation notifications sent by channel and status",
		},
		[]string{"channel", "status"},
	)
)
