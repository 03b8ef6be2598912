package repositories

import (
	"context"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
)

// FormSchemaRepository defines the interface for versioned form schema storage.
// Lookups that match nothing return a nil schema and a nil error.
type FormSchemaRepository interface {
	// ListActive retrieves every active schema for a locale ordered by name then version
	ListActive(ctx context.Context, locale string) ([]*entities.FormSchema, error)

	// Get retrieves the latest active version when version is empty, or the exact active version otherwise
	Get(ctx context.Context, name, version, locale string) (*entities.FormSchema, error)

	// Create stores a new version; a (name, locale, version) collision is a DuplicateVersion error
	Create(ctx context.Context, schema *entities.FormSchema) error

	// Deactivate flips is_active off for one version, or for all versions when version is empty
	Deactivate(ctx context.Context, name, version, locale string) (int64, error)
}
