package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
)

type mockResolver struct{ mock.Mock }

func (m *mockResolver) ListSchemas(ctx context.Context, locale string) ([]*entities.FormSchema, error) {
	args := m.Called(ctx, locale)
	out, _ := args.Get(0).([]*entities.FormSchema)
	return out, args.Error(1)
}

func (m *mockResolver) ResolveForm(ctx context.Context, name, version, locale string) (*entities.FormSchema, error) {
	args := m.Called(ctx, name, version, locale)
	out, _ := args.Get(0).(*entities.FormSchema)
	return out, args.Error(1)
}

func (m *mockResolver) ResolvePrompt(ctx context.Context, formName, stageID, locale string) (*entities.ResolvedPrompt, error) {
	args := m.Called(ctx, formName, stageID, locale)
	out, _ := args.Get(0).(*entities.ResolvedPrompt)
	return out, args.Error(1)
}

func (m *mockResolver) ResolveAllPrompts(ctx context.Context, formName, locale string) (map[string]*entities.ResolvedPrompt, error) {
	args := m.Called(ctx, formName, locale)
	out, _ := args.Get(0).(map[string]*entities.ResolvedPrompt)
	return out, args.Error(1)
}

func (m *mockResolver) GetStagePrompt(ctx context.Context, formName, stageID, locale, version string) (*entities.PromptSpec, error) {
	args := m.Called(ctx, formName, stageID, locale, version)
	out, _ := args.Get(0).(*entities.PromptSpec)
	return out, args.Error(1)
}

func (m *mockResolver) GetFormPromptsForBot(ctx context.Context, formName, locale, version string) (*entities.FormBotPrompts, error) {
	args := m.Called(ctx, formName, locale, version)
	out, _ := args.Get(0).(*entities.FormBotPrompts)
	return out, args.Error(1)
}

func (m *mockResolver) ListPrompts(ctx context.Context, filter repositories.PromptFilter) ([]*entities.PromptSpec, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]*entities.PromptSpec)
	return out, args.Error(1)
}

type mockLifecycle struct{ mock.Mock }

func (m *mockLifecycle) CreateSchema(ctx context.Context, schema *entities.FormSchema) (*entities.FormSchema, error) {
	args := m.Called(ctx, schema)
	out, _ := args.Get(0).(*entities.FormSchema)
	return out, args.Error(1)
}

func (m *mockLifecycle) CreateFormVersion(ctx context.Context, name, newVersion string, patch entities.FormSchemaPatch, locale string) (*entities.FormSchema, error) {
	args := m.Called(ctx, name, newVersion, patch, locale)
	out, _ := args.Get(0).(*entities.FormSchema)
	return out, args.Error(1)
}

func (m *mockLifecycle) DeactivateSchema(ctx context.Context, name, version, locale string) (int64, error) {
	args := m.Called(ctx, name, version, locale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLifecycle) CreatePrompt(ctx context.Context, prompt *entities.PromptSpec) (*entities.PromptSpec, error) {
	args := m.Called(ctx, prompt)
	out, _ := args.Get(0).(*entities.PromptSpec)
	return out, args.Error(1)
}

func (m *mockLifecycle) CreatePromptVersion(ctx context.Context, formName, stageID, newVersion string, patch entities.PromptSpecPatch, locale string) (*entities.PromptSpec, error) {
	args := m.Called(ctx, formName, stageID, newVersion, patch, locale)
	out, _ := args.Get(0).(*entities.PromptSpec)
	return out, args.Error(1)
}

func (m *mockLifecycle) DeactivatePrompt(ctx context.Context, formName, stageID, version, locale string) (int64, error) {
	args := m.Called(ctx, formName, stageID, version, locale)
	return args.Get(0).(int64), args.Error(1)
}

type mockImporter struct{ mock.Mock }

func (m *mockImporter) ImportDefaultSchemas(ctx context.Context, locale string) ([]*entities.FormSchema, error) {
	args := m.Called(ctx, locale)
	out, _ := args.Get(0).([]*entities.FormSchema)
	return out, args.Error(1)
}

func (m *mockImporter) ImportDefaultPrompts(ctx context.Context, locale string) ([]*entities.PromptSpec, error) {
	args := m.Called(ctx, locale)
	out, _ := args.Get(0).([]*entities.PromptSpec)
	return out, args.Error(1)
}

type mockOverrideEditor struct{ mock.Mock }

func (m *mockOverrideEditor) UpsertOverride(ctx context.Context, stageID, locale string, patch entities.OverridePatch) (*entities.ResolvedPrompt, error) {
	args := m.Called(ctx, stageID, locale, patch)
	out, _ := args.Get(0).(*entities.ResolvedPrompt)
	return out, args.Error(1)
}

func (m *mockOverrideEditor) ClearOverride(ctx context.Context, stageID, locale string) (*entities.ResolvedPrompt, error) {
	args := m.Called(ctx, stageID, locale)
	out, _ := args.Get(0).(*entities.ResolvedPrompt)
	return out, args.Error(1)
}

func (m *mockOverrideEditor) ListOverrides(ctx context.Context) ([]*entities.PromptOverride, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*entities.PromptOverride)
	return out, args.Error(1)
}

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) Create(ctx context.Context, session *entities.WellnessSession) (*entities.WellnessSession, error) {
	args := m.Called(ctx, session)
	out, _ := args.Get(0).(*entities.WellnessSession)
	return out, args.Error(1)
}

func (m *mockSessionService) List(ctx context.Context, email string, limit, offset int) ([]*entities.WellnessSession, error) {
	args := m.Called(ctx, email, limit, offset)
	out, _ := args.Get(0).([]*entities.WellnessSession)
	return out, args.Error(1)
}

func (m *mockSessionService) Get(ctx context.Context, id, email string) (*entities.WellnessSession, error) {
	args := m.Called(ctx, id, email)
	out, _ := args.Get(0).(*entities.WellnessSession)
	return out, args.Error(1)
}

func (m *mockSessionService) Update(ctx context.Context, id, email string, update entities.WellnessSessionUpdate) (*entities.WellnessSession, error) {
	args := m.Called(ctx, id, email, update)
	out, _ := args.Get(0).(*entities.WellnessSession)
	return out, args.Error(1)
}

func (m *mockSessionService) Delete(ctx context.Context, id, email string) error {
	return m.Called(ctx, id, email).Error(0)
}

func (m *mockSessionService) ListUsers(ctx context.Context) ([]*entities.UserSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*entities.UserSummary)
	return out, args.Error(1)
}

type mockCoachService struct{ mock.Mock }

func (m *mockCoachService) List(ctx context.Context) ([]*entities.Coach, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]*entities.Coach)
	return out, args.Error(1)
}

func (m *mockCoachService) Get(ctx context.Context, id string) (*entities.Coach, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*entities.Coach)
	return out, args.Error(1)
}

func (m *mockCoachService) UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error) {
	args := m.Called(ctx, id, content)
	out, _ := args.Get(0).(*entities.Coach)
	return out, args.Error(1)
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func strPtr(s string) *string { return &s }
