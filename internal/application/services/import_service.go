package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

// ImportService copies the built-in catalog into the versioned store so it can
// be edited through the normal version lifecycle.
type ImportService struct {
	schemas       repositories.FormSchemaRepository
	prompts       repositories.PromptRepository
	coaches       repositories.CoachRepository
	defaultLocale string
}

// NewImportService creates a new import service. coaches may be nil.
func NewImportService(
	schemas repositories.FormSchemaRepository,
	prompts repositories.PromptRepository,
	coaches repositories.CoachRepository,
	defaultLocale string,
) *ImportService {
	if defaultLocale == "" {
		defaultLocale = catalog.DefaultLocale
	}
	return &ImportService{
		schemas:       schemas,
		prompts:       prompts,
		coaches:       coaches,
		defaultLocale: defaultLocale,
	}
}

// ImportDefaultSchemas stores every built-in form at its initial version.
// Forms already imported are skipped.
func (s *ImportService) ImportDefaultSchemas(ctx context.Context, locale string) ([]*entities.FormSchema, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	logger := observability.LoggerFromContext(ctx)
	now := time.Now().UTC()

	created := []*entities.FormSchema{}
	for _, name := range catalog.FormNames() {
		form, _ := catalog.GetDefaultForm(name)
		form.ID = uuid.New().String()
		form.Locale = locale
		form.CreatedAt = now
		form.UpdatedAt = now

		if err := s.schemas.Create(ctx, form); err != nil {
			if apperrors.IsConflict(err) {
				logger.Warn().Str("form", name).Str("version", form.Version).Msg("default form already imported")
				continue
			}
			return created, err
		}
		created = append(created, form)
	}

	logger.Info().Int("count", len(created)).Str("locale", locale).Msg("imported default forms")
	return created, nil
}

// ImportDefaultPrompts stores every built-in stage prompt at its initial
// version. Stages already imported are skipped.
func (s *ImportService) ImportDefaultPrompts(ctx context.Context, locale string) ([]*entities.PromptSpec, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	logger := observability.LoggerFromContext(ctx)
	now := time.Now().UTC()

	created := []*entities.PromptSpec{}
	for _, name := range catalog.FormNames() {
		for _, prompt := range catalog.DefaultPrompts(name) {
			prompt.ID = uuid.New().String()
			prompt.Locale = locale
			prompt.CreatedAt = now
			prompt.UpdatedAt = now

			if err := s.prompts.Create(ctx, prompt); err != nil {
				if apperrors.IsConflict(err) {
					logger.Warn().Str("form", name).Str("stage_id", prompt.StageID).Msg("default prompt already imported")
					continue
				}
				return created, err
			}
			created = append(created, prompt)
		}
	}

	logger.Info().Int("count", len(created)).Str("locale", locale).Msg("imported default prompts")
	return created, nil
}

// SeedCoaches inserts the built-in coach unless a coach of that name exists
func (s *ImportService) SeedCoaches(ctx context.Context) (bool, error) {
	if s.coaches == nil {
		return false, nil
	}

	coach := catalog.DefaultCoach()
	now := time.Now().UTC()
	coach.ID = uuid.New().String()
	coach.CreatedAt = now
	coach.UpdatedAt = now

	created, err := s.coaches.EnsureCoach(ctx, coach)
	if err != nil {
		return false, err
	}
	observability.LoggerFromContext(ctx).Info().Bool("created", created).Str("coach", coach.Name).Msg("seeded default coach")
	return created, nil
}
