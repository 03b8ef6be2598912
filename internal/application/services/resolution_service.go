package services

import (
	"context"
	"sort"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
	"github.com/zatekoja/wellnessintake/backend/pkg/version"
)

// ResolutionService answers "which form / prompt applies" by layering the
// stage override over the latest versioned record over the built-in default.
type ResolutionService struct {
	schemas       repositories.FormSchemaRepository
	prompts       repositories.PromptRepository
	overrides     repositories.OverrideRepository
	metrics       *observability.Metrics
	defaultLocale string
}

// NewResolutionService creates a new resolution service. metrics may be nil.
func NewResolutionService(
	schemas repositories.FormSchemaRepository,
	prompts repositories.PromptRepository,
	overrides repositories.OverrideRepository,
	metrics *observability.Metrics,
	defaultLocale string,
) *ResolutionService {
	if defaultLocale == "" {
		defaultLocale = catalog.DefaultLocale
	}
	return &ResolutionService{
		schemas:       schemas,
		prompts:       prompts,
		overrides:     overrides,
		metrics:       metrics,
		defaultLocale: defaultLocale,
	}
}

func (s *ResolutionService) locale(locale string) string {
	if locale == "" {
		return s.defaultLocale
	}
	return locale
}

// ResolveForm returns the stored form verbatim, falling back to the built-in
// form of the same name.
func (s *ResolutionService) ResolveForm(ctx context.Context, name, ver, locale string) (*entities.FormSchema, error) {
	stored, err := s.schemas.Get(ctx, name, ver, s.locale(locale))
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	if form, ok := catalog.GetDefaultForm(name); ok {
		if ver != "" {
			observability.LoggerFromContext(ctx).Debug().
				Str("form", name).
				Str("requested_version", ver).
				Str("served_version", form.Version).
				Msg("requested form version not stored, serving built-in form")
		}
		return form, nil
	}
	return nil, apperrors.NewSchemaNotFoundError(name)
}

// ResolvePrompt layers override > versioned > default for one stage. Stages
// unknown to the built-in form are rejected before any store is consulted.
func (s *ResolutionService) ResolvePrompt(ctx context.Context, formName, stageID, locale string) (*entities.ResolvedPrompt, error) {
	ctx, span := observability.StartSpan(ctx, "ResolutionService.ResolvePrompt")
	defer span.End()
	ctx = observability.WithStage(ctx, stageID)

	resolved, err := s.resolvePrompt(ctx, formName, stageID, locale)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return resolved, nil
}

func (s *ResolutionService) resolvePrompt(ctx context.Context, formName, stageID, locale string) (*entities.ResolvedPrompt, error) {
	def, ok := catalog.GetDefaultPrompt(formName, stageID)
	if !ok {
		return nil, apperrors.NewStageNotFoundError(formName, stageID)
	}

	resolved := &entities.ResolvedPrompt{
		QuestionPrompt:   def.Content.MainPrompt,
		ExtractionPrompt: def.Content.ExtractionPrompt,
		QuestionSource:   entities.SourceDefault,
		ExtractionSource: entities.SourceDefault,
	}

	versioned, err := s.prompts.Get(ctx, formName, stageID, s.locale(locale), "")
	if err != nil {
		return nil, err
	}
	if versioned != nil {
		if versioned.Content.MainPrompt != "" {
			resolved.QuestionPrompt = versioned.Content.MainPrompt
			resolved.QuestionSource = entities.SourceVersioned
		}
		if versioned.Content.ExtractionPrompt != "" {
			resolved.ExtractionPrompt = versioned.Content.ExtractionPrompt
			resolved.ExtractionSource = entities.SourceVersioned
		}
	}

	override, err := s.overrides.Get(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if override != nil {
		if override.QuestionPrompt != nil {
			resolved.QuestionPrompt = *override.QuestionPrompt
			resolved.QuestionSource = entities.SourceOverride
		}
		if override.ExtractionPrompt != nil {
			resolved.ExtractionPrompt = *override.ExtractionPrompt
			resolved.ExtractionSource = entities.SourceOverride
		}
	}

	observability.RecordResolution(ctx, s.metrics, "question_prompt", string(resolved.QuestionSource))
	observability.RecordResolution(ctx, s.metrics, "extraction_prompt", string(resolved.ExtractionSource))
	return resolved, nil
}

// ResolveAllPrompts resolves every stage of a built-in form keyed by stage id.
func (s *ResolutionService) ResolveAllPrompts(ctx context.Context, formName, locale string) (map[string]*entities.ResolvedPrompt, error) {
	form, ok := catalog.GetDefaultForm(formName)
	if !ok {
		return nil, apperrors.NewSchemaNotFoundError(formName)
	}

	out := make(map[string]*entities.ResolvedPrompt, len(form.Stages))
	for _, stage := range form.Stages {
		resolved, err := s.ResolvePrompt(ctx, formName, stage.ID, locale)
		if err != nil {
			return nil, err
		}
		out[stage.ID] = resolved
	}
	return out, nil
}

// GetStagePrompt returns the full stored prompt of a stage, or the built-in one
// when nothing active is stored and no version was asked for.
func (s *ResolutionService) GetStagePrompt(ctx context.Context, formName, stageID, locale, ver string) (*entities.PromptSpec, error) {
	stored, err := s.prompts.Get(ctx, formName, stageID, s.locale(locale), ver)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	if ver == "" {
		if def, ok := catalog.GetDefaultPrompt(formName, stageID); ok {
			return def, nil
		}
	}
	return nil, apperrors.NewPromptNotFoundError(formName, stageID)
}

// GetFormPromptsForBot bundles one prompt per stage for the chat agent. Built-in
// stages missing from the store use their default prompt.
func (s *ResolutionService) GetFormPromptsForBot(ctx context.Context, formName, locale, ver string) (*entities.FormBotPrompts, error) {
	locale = s.locale(locale)

	stored, err := s.prompts.ListForForm(ctx, formName, locale, ver)
	if err != nil {
		return nil, err
	}
	byStage := make(map[string]*entities.PromptSpec, len(stored))
	for _, p := range stored {
		byStage[p.StageID] = p
	}

	var ordered []*entities.PromptSpec
	for _, def := range catalog.DefaultPrompts(formName) {
		if p, ok := byStage[def.StageID]; ok {
			ordered = append(ordered, p)
			delete(byStage, def.StageID)
			continue
		}
		if ver == "" {
			ordered = append(ordered, def)
		}
	}

	extra := make([]*entities.PromptSpec, 0, len(byStage))
	for _, p := range byStage {
		extra = append(extra, p)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].StageID < extra[j].StageID })
	ordered = append(ordered, extra...)

	if len(ordered) == 0 {
		return nil, apperrors.NewSchemaNotFoundError(formName)
	}

	result := &entities.FormBotPrompts{
		FormName: formName,
		Version:  version.Initial,
		Locale:   locale,
		Stages:   make([]entities.BotStage, 0, len(ordered)),
	}
	versions := make([]string, 0, len(ordered))
	for _, p := range ordered {
		versions = append(versions, p.Version)
		result.Stages = append(result.Stages, entities.BotStage{
			StageID:   p.StageID,
			StageName: p.Name,
			Prompts: entities.StageBotPrompts{
				StageID:          p.StageID,
				FormName:         p.FormName,
				MainPrompt:       p.Content.MainPrompt,
				FollowUpPrompt:   p.Content.FollowUpPrompt,
				ValidationPrompt: p.Content.ValidationPrompt,
				CompletionPrompt: p.Content.CompletionPrompt,
				Metadata:         p.Metadata,
			},
		})
	}
	if i := version.Latest(versions); i >= 0 && versions[i] != "" {
		result.Version = versions[i]
	}
	return result, nil
}

// ListSchemas returns the active stored forms of a locale plus every built-in
// form that has no active stored version there.
func (s *ResolutionService) ListSchemas(ctx context.Context, locale string) ([]*entities.FormSchema, error) {
	stored, err := s.schemas.ListActive(ctx, s.locale(locale))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(stored))
	for _, schema := range stored {
		seen[schema.Name] = struct{}{}
	}

	out := append([]*entities.FormSchema{}, stored...)
	for _, name := range catalog.FormNames() {
		if _, ok := seen[name]; ok {
			continue
		}
		form, _ := catalog.GetDefaultForm(name)
		out = append(out, form)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return version.Less(out[i].Version, out[j].Version)
	})
	return out, nil
}

// ListPrompts lists stored prompts with filters
func (s *ResolutionService) ListPrompts(ctx context.Context, filter repositories.PromptFilter) ([]*entities.PromptSpec, error) {
	return s.prompts.List(ctx, filter)
}
