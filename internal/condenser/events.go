package condenser

import "github.com/HerbHall/condensight/pkg/thermal"

// Event topics published by the condenser module. The module consumes
// feed.TopicReadingsCollected, declared by the feed package.
const (
	// TopicPipelineCompleted is published after each pipeline run with a
	// PipelineCompletedPayload.
	TopicPipelineCompleted = "condenser.pipeline.completed"

	// TopicAlertRaised is published once per alert with a
	// thermal.Alert payload.
	TopicAlertRaised = "condenser.alert.raised"
)

// PipelineCompletedPayload is the payload for TopicPipelineCompleted.
type PipelineCompletedPayload struct {
	Timeframe string                 `json:"timeframe"`
	Points    int                    `json:"points"`
	Dropped   int                    `json:"dropped"`
	Latest    *thermal.LatestSummary `json:"latest,omitempty"`
	Alerts    []thermal.Alert        `json:"alerts"`
}
