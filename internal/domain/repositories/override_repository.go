package repositories

import (
	"context"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
)

// OverrideRepository defines the interface for the sparse per-stage override store.
type OverrideRepository interface {
	// Get retrieves the override row for a stage, or nil when there is none
	Get(ctx context.Context, stageID string) (*entities.PromptOverride, error)

	// ListAll retrieves every override row ordered by stage id
	ListAll(ctx context.Context) ([]*entities.PromptOverride, error)

	// Upsert inserts the row with absent fields NULL, or updates only the supplied fields
	Upsert(ctx context.Context, stageID string, patch entities.OverridePatch) (*entities.PromptOverride, error)

	// Clear deletes the row for a stage; clearing a missing row is not an error
	Clear(ctx context.Context, stageID string) error
}
