package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

// DefaultSessionPageSize is the page size used when a caller gives none.
const DefaultSessionPageSize = 50

// WellnessSessionService handles interview sessions. Every call is scoped to
// the email that owns the session.
type WellnessSessionService struct {
	repo repositories.WellnessSessionRepository
}

// NewWellnessSessionService creates a new wellness session service
func NewWellnessSessionService(repo repositories.WellnessSessionRepository) *WellnessSessionService {
	return &WellnessSessionService{repo: repo}
}

// Create stores a new session
func (s *WellnessSessionService) Create(ctx context.Context, session *entities.WellnessSession) (*entities.WellnessSession, error) {
	switch {
	case strings.TrimSpace(session.UserID) == "":
		return nil, apperrors.NewValidationError("Email is required")
	case strings.TrimSpace(session.Transcription) == "":
		return nil, apperrors.NewValidationError("Transcription is required")
	case strings.TrimSpace(session.Summary) == "":
		return nil, apperrors.NewValidationError("Summary is required")
	}

	now := time.Now().UTC()
	session.ID = uuid.New().String()
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// List returns a page of the user's sessions, newest first
func (s *WellnessSessionService) List(ctx context.Context, email string, limit, offset int) ([]*entities.WellnessSession, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("Email is required")
	}
	if limit <= 0 {
		limit = DefaultSessionPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, email, limit, offset)
}

// Get returns one session of the user
func (s *WellnessSessionService) Get(ctx context.Context, id, email string) (*entities.WellnessSession, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("Email is required")
	}
	session, err := s.repo.GetByID(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	return session, nil
}

// Update applies a partial update to one session of the user
func (s *WellnessSessionService) Update(ctx context.Context, id, email string, update entities.WellnessSessionUpdate) (*entities.WellnessSession, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewValidationError("Email is required")
	}
	session, err := s.repo.Update(ctx, id, email, update)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	return session, nil
}

// Delete removes one session of the user
func (s *WellnessSessionService) Delete(ctx context.Context, id, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewValidationError("Email is required")
	}
	deleted, err := s.repo.Delete(ctx, id, email)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewSessionNotFoundError(id)
	}
	return nil
}

// ListUsers aggregates sessions per user, most recently active first
func (s *WellnessSessionService) ListUsers(ctx context.Context) ([]*entities.UserSummary, error) {
	return s.repo.SummarizeUsers(ctx)
}
