package entities

import (
	"time"

	"github.com/google/uuid"
)

// OverrideEventType represents the kind of override change
type OverrideEventType string

const (
	OverrideEventTypeUpdated OverrideEventType = "override_updated"
	OverrideEventTypeCleared OverrideEventType = "override_cleared"
)

// OverrideEvent announces that the override row of a stage changed, so other
// instances can drop their cached copy.
type OverrideEvent struct {
	ID        string            `json:"id"`
	StageID   string            `json:"stage_id"`
	EventType OverrideEventType `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewOverrideEvent creates a new override event
func NewOverrideEvent(stageID string, eventType OverrideEventType) *OverrideEvent {
	return &OverrideEvent{
		ID:        uuid.New().String(),
		StageID:   stageID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}
