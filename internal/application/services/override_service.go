package services

import (
	"context"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

// OverrideService edits the per-stage override layer. Override rows are keyed
// by stage id alone, so a stage id shared by two forms shares one override.
type OverrideService struct {
	overrides  repositories.OverrideRepository
	resolution *ResolutionService
}

// NewOverrideService creates a new override service
func NewOverrideService(overrides repositories.OverrideRepository, resolution *ResolutionService) *OverrideService {
	return &OverrideService{
		overrides:  overrides,
		resolution: resolution,
	}
}

// UpsertOverride applies the patch and returns the freshly resolved prompt of
// the stage. Nothing supplied changes nothing; all supplied values empty
// clears the stage.
func (s *OverrideService) UpsertOverride(ctx context.Context, stageID, locale string, patch entities.OverridePatch) (*entities.ResolvedPrompt, error) {
	ctx = observability.WithStage(ctx, stageID)
	formName, ok := catalog.FormOfStage(stageID)
	if !ok {
		return nil, apperrors.NewStageNotFoundError("", stageID)
	}

	logger := observability.LoggerFromContext(ctx)
	switch {
	case !patch.Supplied():
		logger.Debug().Msg("override patch supplied nothing")
	case patch.ClearsAll():
		if err := s.overrides.Clear(ctx, stageID); err != nil {
			return nil, err
		}
		logger.Info().Msg("cleared prompt override")
	default:
		if _, err := s.overrides.Upsert(ctx, stageID, patch); err != nil {
			return nil, err
		}
		logger.Info().
			Bool("question_prompt", patch.QuestionPrompt != nil).
			Bool("extraction_prompt", patch.ExtractionPrompt != nil).
			Msg("updated prompt override")
	}

	return s.resolution.ResolvePrompt(ctx, formName, stageID, locale)
}

// ClearOverride drops the stage's override row and returns the resolution
// that now applies.
func (s *OverrideService) ClearOverride(ctx context.Context, stageID, locale string) (*entities.ResolvedPrompt, error) {
	ctx = observability.WithStage(ctx, stageID)
	formName, ok := catalog.FormOfStage(stageID)
	if !ok {
		return nil, apperrors.NewStageNotFoundError("", stageID)
	}
	if err := s.overrides.Clear(ctx, stageID); err != nil {
		return nil, err
	}
	observability.LoggerFromContext(ctx).Info().Msg("cleared prompt override")
	return s.resolution.ResolvePrompt(ctx, formName, stageID, locale)
}

// ListOverrides returns every stored override row
func (s *OverrideService) ListOverrides(ctx context.Context) ([]*entities.PromptOverride, error) {
	return s.overrides.ListAll(ctx)
}
