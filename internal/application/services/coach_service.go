package services

import (
	"context"
	"strings"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

// CoachService handles coaching personas.
type CoachService struct {
	repo repositories.CoachRepository
}

// NewCoachService creates a new coach service.
func NewCoachService(repo repositories.CoachRepository) *CoachService {
	return &CoachService{repo: repo}
}

// List returns every coach, oldest first.
func (s *CoachService) List(ctx context.Context) ([]*entities.Coach, error) {
	return s.repo.List(ctx)
}

// Get returns one coach.
func (s *CoachService) Get(ctx context.Context, id string) (*entities.Coach, error) {
	coach, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, apperrors.NewCoachNotFoundError(id)
	}
	return coach, nil
}

// UpdatePromptContent replaces the coach's prompt content. It is the only
// mutable field.
func (s *CoachService) UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("coach_prompt_content is required and cannot be empty")
	}
	coach, err := s.repo.UpdatePromptContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	if coach == nil {
		return nil, apperrors.NewCoachNotFoundError(id)
	}
	return coach, nil
}
