package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
	"github.com/zatekoja/wellnessintake/backend/pkg/version"
)

// LifecycleService creates and retires versions of forms and prompts. Stored
// versions are never modified; every change is a new row.
type LifecycleService struct {
	schemas       repositories.FormSchemaRepository
	prompts       repositories.PromptRepository
	defaultLocale string
	now           func() time.Time
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	schemas repositories.FormSchemaRepository,
	prompts repositories.PromptRepository,
	defaultLocale string,
) *LifecycleService {
	if defaultLocale == "" {
		defaultLocale = catalog.DefaultLocale
	}
	return &LifecycleService{
		schemas:       schemas,
		prompts:       prompts,
		defaultLocale: defaultLocale,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *LifecycleService) locale(locale string) string {
	if locale == "" {
		return s.defaultLocale
	}
	return locale
}

// CreateSchema stores a brand-new form version
func (s *LifecycleService) CreateSchema(ctx context.Context, schema *entities.FormSchema) (*entities.FormSchema, error) {
	if strings.TrimSpace(schema.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if err := version.Validate(schema.Version); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if schema.Fields == nil {
		schema.Fields = []entities.FieldDefinition{}
	}
	if schema.Stages == nil {
		schema.Stages = []entities.StageDefinition{}
	}
	if err := schema.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := s.now()
	schema.ID = uuid.New().String()
	schema.Locale = s.locale(schema.Locale)
	schema.IsActive = true
	schema.CreatedAt = now
	schema.UpdatedAt = now

	if err := s.schemas.Create(ctx, schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// CreateFormVersion copies the latest stored version of a form (or the
// built-in form) with the patch applied and stores it as newVersion.
func (s *LifecycleService) CreateFormVersion(ctx context.Context, name, newVersion string, patch entities.FormSchemaPatch, locale string) (*entities.FormSchema, error) {
	if err := version.Validate(newVersion); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	locale = s.locale(locale)

	base, err := s.schemas.Get(ctx, name, "", locale)
	if err != nil {
		return nil, err
	}
	if base == nil {
		def, ok := catalog.GetDefaultForm(name)
		if !ok {
			return nil, apperrors.NewSchemaNotFoundError(name)
		}
		base = def
	}

	next := mergeFormSchema(base, patch)
	if err := next.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := s.now()
	next.ID = uuid.New().String()
	next.Version = newVersion
	next.Locale = locale
	next.IsActive = true
	next.CreatedAt = now
	next.UpdatedAt = now

	if err := s.schemas.Create(ctx, next); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("form", name).
		Str("from_version", base.Version).
		Str("version", newVersion).
		Msg("created form version")
	return next, nil
}

// DeactivateSchema retires one version of a form, or all of them when ver is
// empty, and reports how many rows matched.
func (s *LifecycleService) DeactivateSchema(ctx context.Context, name, ver, locale string) (int64, error) {
	return s.schemas.Deactivate(ctx, name, ver, s.locale(locale))
}

// CreatePrompt stores a brand-new prompt version
func (s *LifecycleService) CreatePrompt(ctx context.Context, prompt *entities.PromptSpec) (*entities.PromptSpec, error) {
	switch {
	case strings.TrimSpace(prompt.FormName) == "":
		return nil, apperrors.NewValidationError("form_name is required")
	case strings.TrimSpace(prompt.StageID) == "":
		return nil, apperrors.NewValidationError("stage_id is required")
	case strings.TrimSpace(prompt.Name) == "":
		return nil, apperrors.NewValidationError("name is required")
	}
	if err := version.Validate(prompt.Version); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := s.now()
	prompt.ID = uuid.New().String()
	prompt.Locale = s.locale(prompt.Locale)
	prompt.IsActive = true
	prompt.CreatedAt = now
	prompt.UpdatedAt = now

	if err := s.prompts.Create(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// CreatePromptVersion copies the latest stored prompt of a stage (or the
// built-in one) with the patch applied and stores it as newVersion.
func (s *LifecycleService) CreatePromptVersion(ctx context.Context, formName, stageID, newVersion string, patch entities.PromptSpecPatch, locale string) (*entities.PromptSpec, error) {
	if err := version.Validate(newVersion); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	locale = s.locale(locale)

	base, err := s.prompts.Get(ctx, formName, stageID, locale, "")
	if err != nil {
		return nil, err
	}
	if base == nil {
		def, ok := catalog.GetDefaultPrompt(formName, stageID)
		if !ok {
			return nil, apperrors.NewPromptNotFoundError(formName, stageID)
		}
		base = def
	}

	next := mergePromptSpec(base, patch)
	now := s.now()
	next.ID = uuid.New().String()
	next.Version = newVersion
	next.Locale = locale
	next.IsActive = true
	next.CreatedAt = now
	next.UpdatedAt = now

	if err := s.prompts.Create(ctx, next); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("form", formName).
		Str("stage_id", stageID).
		Str("from_version", base.Version).
		Str("version", newVersion).
		Msg("created prompt version")
	return next, nil
}

// DeactivatePrompt retires one version of a stage prompt, or all of them
func (s *LifecycleService) DeactivatePrompt(ctx context.Context, formName, stageID, ver, locale string) (int64, error) {
	return s.prompts.Deactivate(ctx, formName, stageID, ver, s.locale(locale))
}

// mergeFormSchema returns a copy of base with every non-nil patch field
// applied. Field and stage lists are replaced whole.
func mergeFormSchema(base *entities.FormSchema, patch entities.FormSchemaPatch) *entities.FormSchema {
	next := &entities.FormSchema{
		Name:        base.Name,
		Description: base.Description,
		Fields:      append([]entities.FieldDefinition{}, base.Fields...),
		Stages:      append([]entities.StageDefinition{}, base.Stages...),
		CreatedBy:   base.CreatedBy,
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Fields != nil {
		next.Fields = append([]entities.FieldDefinition{}, (*patch.Fields)...)
	}
	if patch.Stages != nil {
		next.Stages = append([]entities.StageDefinition{}, (*patch.Stages)...)
	}
	if patch.CreatedBy != nil {
		next.CreatedBy = *patch.CreatedBy
	}
	return next
}

// mergePromptSpec returns a copy of base with every non-nil patch field
// applied slot by slot.
func mergePromptSpec(base *entities.PromptSpec, patch entities.PromptSpecPatch) *entities.PromptSpec {
	next := &entities.PromptSpec{
		Name:        base.Name,
		Description: base.Description,
		StageID:     base.StageID,
		FormName:    base.FormName,
		Content:     base.Content,
		Metadata:    base.Metadata,
		CreatedBy:   base.CreatedBy,
	}
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.CreatedBy != nil {
		next.CreatedBy = *patch.CreatedBy
	}
	if c := patch.Content; c != nil {
		setIfPresent(&next.Content.MainPrompt, c.MainPrompt)
		setIfPresent(&next.Content.FollowUpPrompt, c.FollowUpPrompt)
		setIfPresent(&next.Content.ValidationPrompt, c.ValidationPrompt)
		setIfPresent(&next.Content.CompletionPrompt, c.CompletionPrompt)
		setIfPresent(&next.Content.ExtractionPrompt, c.ExtractionPrompt)
	}
	if m := patch.Metadata; m != nil {
		setIfPresent(&next.Metadata.Tone, m.Tone)
		setIfPresent(&next.Metadata.Style, m.Style)
		setIfPresent(&next.Metadata.Length, m.Length)
		setIfPresent(&next.Metadata.Difficulty, m.Difficulty)
	}
	return next
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
