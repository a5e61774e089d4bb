package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/HerbHall/condensight/internal/condenser"
	"github.com/HerbHall/condensight/pkg/plugin"
	"github.com/HerbHall/condensight/pkg/thermal"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Handler accepts WebSocket connections and bridges bus events to the hub.
type Handler struct {
	hub    *Hub
	logger *zap.Logger
	unsubs []func()
}

// NewHandler creates the handler and subscribes to the condenser topics.
func NewHandler(bus plugin.Subscriber, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		logger: logger,
	}

	h.unsubs = append(h.unsubs,
		bus.Subscribe(condenser.TopicPipelineCompleted, h.onPipelineCompleted),
		bus.Subscribe(condenser.TopicAlertRaised, h.onAlertRaised),
	)
	return h
}

// RegisterRoutes mounts the live endpoint on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/live", h.handleLive)
}

// Close unsubscribes from the bus and disconnects all clients.
func (h *Handler) Close() {
	for _, u := range h.unsubs {
		u()
	}
	h.hub.CloseAll()
}

// Hub exposes the underlying hub, mainly for health reporting.
func (h *Handler) Hub() *Hub { return h.hub }

// handleLive upgrades the connection and keeps it registered until the
// client disconnects. The connection is push-only: client frames are
// read and discarded to service control messages.
func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Debug("ws accept failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, remote: r.RemoteAddr}
	h.hub.register(c)
	defer h.hub.unregister(c)
	defer conn.CloseNow()

	// Reading pumps control frames (ping/pong, close) and returns when
	// the peer goes away.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (h *Handler) onPipelineCompleted(ctx context.Context, e plugin.Event) {
	p, ok := e.Payload.(condenser.PipelineCompletedPayload)
	if !ok {
		return
	}
	h.hub.Broadcast(ctx, Message{
		Type:      MessagePipelineCompleted,
		Timestamp: time.Now(),
		Payload: PipelinePayload{
			Timeframe: p.Timeframe,
			Points:    p.Points,
			Dropped:   p.Dropped,
			Latest:    p.Latest,
			Alerts:    p.Alerts,
		},
	})
}

func (h *Handler) onAlertRaised(ctx context.Context, e plugin.Event) {
	a, ok := e.Payload.(thermal.Alert)
	if !ok {
		return
	}
	h.hub.Broadcast(ctx, Message{
		Type:      MessageAlertRaised,
		Timestamp: time.Now(),
		Payload:   AlertPayload{Alert: a},
	})
}
