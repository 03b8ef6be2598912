package handlers

import (
	"context"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
)

// Resolver reads the effective forms and prompts.
type Resolver interface {
	ListSchemas(ctx context.Context, locale string) ([]*entities.FormSchema, error)
	ResolveForm(ctx context.Context, name, version, locale string) (*entities.FormSchema, error)
	ResolvePrompt(ctx context.Context, formName, stageID, locale string) (*entities.ResolvedPrompt, error)
	ResolveAllPrompts(ctx context.Context, formName, locale string) (map[string]*entities.ResolvedPrompt, error)
	GetStagePrompt(ctx context.Context, formName, stageID, locale, version string) (*entities.PromptSpec, error)
	GetFormPromptsForBot(ctx context.Context, formName, locale, version string) (*entities.FormBotPrompts, error)
	ListPrompts(ctx context.Context, filter repositories.PromptFilter) ([]*entities.PromptSpec, error)
}

// Lifecycle creates and retires versions.
type Lifecycle interface {
	CreateSchema(ctx context.Context, schema *entities.FormSchema) (*entities.FormSchema, error)
	CreateFormVersion(ctx context.Context, name, newVersion string, patch entities.FormSchemaPatch, locale string) (*entities.FormSchema, error)
	DeactivateSchema(ctx context.Context, name, version, locale string) (int64, error)
	CreatePrompt(ctx context.Context, prompt *entities.PromptSpec) (*entities.PromptSpec, error)
	CreatePromptVersion(ctx context.Context, formName, stageID, newVersion string, patch entities.PromptSpecPatch, locale string) (*entities.PromptSpec, error)
	DeactivatePrompt(ctx context.Context, formName, stageID, version, locale string) (int64, error)
}

// Importer copies built-in content into the store.
type Importer interface {
	ImportDefaultSchemas(ctx context.Context, locale string) ([]*entities.FormSchema, error)
	ImportDefaultPrompts(ctx context.Context, locale string) ([]*entities.PromptSpec, error)
}

// OverrideEditor edits the per-stage override layer.
type OverrideEditor interface {
	UpsertOverride(ctx context.Context, stageID, locale string, patch entities.OverridePatch) (*entities.ResolvedPrompt, error)
	ClearOverride(ctx context.Context, stageID, locale string) (*entities.ResolvedPrompt, error)
	ListOverrides(ctx context.Context) ([]*entities.PromptOverride, error)
}

// SessionService manages interview sessions.
type SessionService interface {
	Create(ctx context.Context, session *entities.WellnessSession) (*entities.WellnessSession, error)
	List(ctx context.Context, email string, limit, offset int) ([]*entities.WellnessSession, error)
	Get(ctx context.Context, id, email string) (*entities.WellnessSession, error)
	Update(ctx context.Context, id, email string, update entities.WellnessSessionUpdate) (*entities.WellnessSession, error)
	Delete(ctx context.Context, id, email string) error
	ListUsers(ctx context.Context) ([]*entities.UserSummary, error)
}

// CoachService manages coaching personas.
type CoachService interface {
	List(ctx context.Context) ([]*entities.Coach, error)
	Get(ctx context.Context, id string) (*entities.Coach, error)
	UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error)
}
