package repositories

import (
	"context"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
)

// WellnessSessionRepository defines the interface for interview session storage.
// Every read and write is scoped to the owning user's email.
type WellnessSessionRepository interface {
	Create(ctx context.Context, session *entities.WellnessSession) error
	GetByID(ctx context.Context, id, userID string) (*entities.WellnessSession, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.WellnessSession, error)
	Update(ctx context.Context, id, userID string, update entities.WellnessSessionUpdate) (*entities.WellnessSession, error)
	Delete(ctx context.Context, id, userID string) (bool, error)

	// SummarizeUsers groups sessions per user ordered by last interview, newest first
	SummarizeUsers(ctx context.Context) ([]*entities.UserSummary, error)
}

// CoachRepository defines the interface for coach persona storage.
type CoachRepository interface {
	List(ctx context.Context) ([]*entities.Coach, error)
	GetByID(ctx context.Context, id string) (*entities.Coach, error)
	UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error)

	// EnsureCoach inserts the coach unless its name is taken and reports whether it wrote a row
	EnsureCoach(ctx context.Context, coach *entities.Coach) (bool, error)
}
