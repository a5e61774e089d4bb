// Package ws pushes pipeline results and alerts to WebSocket clients.
package ws

import (
	"time"

	"github.com/HerbHall/condensight/pkg/thermal"
)

// Message types pushed to clients.
const (
	MessagePipelineCompleted = "pipeline.completed"
	MessageAlertRaised       = "alert.raised"
)

// Message is the envelope for all pushed payloads.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// PipelinePayload summarizes a completed pipeline run for live dashboards.
type PipelinePayload struct {
	Timeframe string                 `json:"timeframe"`
	Points    int                    `json:"points"`
	Dropped   int                    `json:"dropped"`
	Latest    *thermal.LatestSummary `json:"latest,omitempty"`
	Alerts    []thermal.Alert        `json:"alerts"`
}

// AlertPayload wraps a single raised alert.
type AlertPayload struct {
	Alert thermal.Alert `json:"alert"`
}
