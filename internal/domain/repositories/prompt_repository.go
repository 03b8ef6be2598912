package repositories

import (
	"context"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
)

// PromptRepository defines the interface for versioned prompt storage.
type PromptRepository interface {
	// List retrieves prompts with filters ordered by form, stage and version
	List(ctx context.Context, filter PromptFilter) ([]*entities.PromptSpec, error)

	// ListForForm retrieves the latest active version of every stage of a form
	// independently, or the given version of every stage when version is set
	ListForForm(ctx context.Context, formName, locale, version string) ([]*entities.PromptSpec, error)

	// Get retrieves one stage prompt; latest active when version is empty
	Get(ctx context.Context, formName, stageID, locale, version string) (*entities.PromptSpec, error)

	// Create stores a new version; a collision is a DuplicateVersion error
	Create(ctx context.Context, prompt *entities.PromptSpec) error

	// Deactivate flips is_active off for one version, or all versions when version is empty
	Deactivate(ctx context.Context, formName, stageID, version, locale string) (int64, error)
}

// PromptFilter defines filters for listing prompts
type PromptFilter struct {
	FormName string
	StageID  string
	Locale   string
	IsActive *bool
}
