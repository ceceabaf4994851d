// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ConversationsTotal tracks conversation lifecycle operations.
	ConversationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_conversations_total",
			Help: "Conversations created or deleted",
		},
		[]string{"operation"},
	)

	// MessagesTotal tracks appended messages by origin.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Messages appended to conversations",
		},
		[]string{"origin"},
	)

	// RepliesPending tracks scheduled auto-replies that have not fired yet.
	RepliesPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_replies_pending",
			Help: "Auto-replies waiting for their timer",
		},
	)

	// RepliesTotal tracks auto-replies by outcome (delivered, cancelled, fallback).
	RepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Auto-replies by outcome",
		},
		[]string{"outcome"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// EventsDropped tracks events dropped for slow subscribers.
	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_events_dropped_total",
			Help: "State-change events dropped because a subscriber was full",
		},
	)

	// PreferenceWrites tracks writes to local preference storage.
	PreferenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_writes_total",
			Help: "Preference writes to local storage",
		},
		[]string{"key", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
