// Package metrics exposes process-wide prometheus counters for the assistant.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogueTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_dialogue_turns_total",
		Help: "Dialogue turns processed, by recognized intent and state phase",
	}, []string{"intent", "phase"})

	DialogueResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_dialogue_responses_total",
		Help: "Dialogue responses emitted, by kind",
	}, []string{"kind"})

	StateTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_state_transitions_total",
		Help: "Conversation state transitions",
	}, []string{"from", "to"})

	ExtractorFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_extractor_failures_total",
		Help: "Utterances the NLU extractor could not analyze",
	})

	ExtractorLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_extractor_latency_seconds",
		Help:    "NLU extraction latency",
		Buckets: prometheus.DefBuckets,
	})

	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_operations_total",
		Help: "In-app operations executed, by intent and status",
	}, []string{"intent", "status"})
)
