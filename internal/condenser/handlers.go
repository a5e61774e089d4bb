package condenser

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/HerbHall/condensight/internal/server"
	"github.com/HerbHall/condensight/pkg/plugin"
	"github.com/HerbHall/condensight/pkg/thermal"
	"go.uber.org/zap"
)

// Routes returns the module's HTTP routes, mounted under /api/v1/condenser.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/series", Handler: m.handleSeries},
		{Method: "GET", Path: "/latest", Handler: m.handleLatest},
		{Method: "GET", Path: "/alerts", Handler: m.handleAlerts},
		{Method: "POST", Path: "/evaluate", Handler: m.handleEvaluate},
	}
}

// handleSeries runs the pipeline over stored history for the requested
// window and returns the annotated series.
//
// GET /api/v1/condenser/series?window=24h
func (m *Module) handleSeries(w http.ResponseWriter, r *http.Request) {
	window := r.URL.Query().Get("window")
	if window == "" {
		window = string(Timeframe24h)
	}
	tf, err := ParseTimeframe(window)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	result, err := m.RunPipeline(r.Context(), tf, 0)
	if err != nil {
		m.logger.Error("series pipeline failed", zap.Error(err))
		server.InternalError(w, "pipeline run failed", r.URL.Path)
		return
	}

	writeJSON(w, result)
}

// handleLatest returns the most recently persisted pipeline summary.
//
// GET /api/v1/condenser/latest
func (m *Module) handleLatest(w http.ResponseWriter, r *http.Request) {
	summary, updatedAt, err := m.store.GetLatest(r.Context())
	if errors.Is(err, ErrNoSummary) {
		server.NotFound(w, "no pipeline run has completed yet", r.URL.Path)
		return
	}
	if err != nil {
		m.logger.Error("loading latest summary failed", zap.Error(err))
		server.InternalError(w, "loading latest summary failed", r.URL.Path)
		return
	}

	writeJSON(w, map[string]any{
		"updated_at": updatedAt,
		"latest":     summary,
	})
}

// handleAlerts returns recent persisted alerts, newest first.
//
// GET /api/v1/condenser/alerts?limit=50
func (m *Module) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 1000 {
			server.BadRequest(w, "limit must be an integer between 1 and 1000", r.URL.Path)
			return
		}
		limit = n
	}

	alerts, err := m.store.ListAlerts(r.Context(), limit)
	if err != nil {
		m.logger.Error("listing alerts failed", zap.Error(err))
		server.InternalError(w, "listing alerts failed", r.URL.Path)
		return
	}
	if alerts == nil {
		alerts = []StoredAlert{}
	}
	writeJSON(w, alerts)
}

// evaluateRequest is the body for POST /evaluate: ad-hoc readings to run
// through the pipeline without persisting anything.
type evaluateRequest struct {
	Readings []thermal.Reading `json:"readings"`
	Window   string            `json:"window"`
}

// handleEvaluate runs the pipeline over caller-supplied readings. Useful
// for what-if analysis against alternate sensor data; nothing is stored.
//
// POST /api/v1/condenser/evaluate
func (m *Module) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		return
	}

	if req.Window == "" {
		req.Window = string(Timeframe24h)
	}
	tf, err := ParseTimeframe(req.Window)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	result := m.pipeline.Run(req.Readings, tf, 0)
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
