package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/enet-chat/chat-server/internal/events"
	"github.com/enet-chat/chat-server/internal/model"
	"github.com/enet-chat/chat-server/pkg/clock"
	"github.com/enet-chat/chat-server/pkg/logger"
	"github.com/enet-chat/chat-server/pkg/metrics"
)

// DefaultHeartbeat is the idle interval between heartbeat events.
const DefaultHeartbeat = 30 * time.Second

// StreamHandler serves the state-change event feed over SSE.
type StreamHandler struct {
	broker    *events.Broker
	clock     clock.Clock
	heartbeat time.Duration
	logger    *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(broker *events.Broker, clk clock.Clock, heartbeat time.Duration, log *logger.Logger) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &StreamHandler{
		broker:    broker,
		clock:     clk,
		heartbeat: heartbeat,
		logger:    log,
	}
}

// Events handles GET /api/v1/events
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.broker.Subscribe()
	defer h.broker.Unsubscribe(sub)

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"subscriber_id": sub.ID,
	})

	heartbeat := h.clock.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected", zap.String("subscriber_id", sub.ID))
			return

		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			if err := sendSSEEvent(w, flusher, string(evt.Type), &evt); err != nil {
				h.logger.Warn("failed to encode event", zap.Error(err))
			}

		case t := <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{Timestamp: t})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
