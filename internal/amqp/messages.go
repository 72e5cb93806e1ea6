package amqp

import (
	"encoding/json"
	"time"
)

// Build event statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// BuildEvent is the fire-and-forget notification published after a build
// attempt. Consumers (alerting UI, analysis jobs) act on it; the engine
// never reads anything back.
type BuildEvent struct {
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	RowCount   int       `json:"row_count,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RebuildRequest asks the worker to rerun a build. When ShowSubCategories
// is set the request is treated as a preference toggle and persisted before
// rebuilding.
type RebuildRequest struct {
	ShowSubCategories *bool     `json:"show_subcategories,omitempty"`
	RequestedAt       time.Time `json:"requested_at"`
}

// NewBuildEvent creates a build event stamped with the current time.
func NewBuildEvent(status, message string, rowCount int, durationMs int64) *BuildEvent {
	return &BuildEvent{
		Status:     status,
		Message:    message,
		RowCount:   rowCount,
		DurationMs: durationMs,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *BuildEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RebuildRequestFromJSON creates a request from JSON bytes
func RebuildRequestFromJSON(data []byte) (*RebuildRequest, error) {
	var msg RebuildRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
