package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/wellnessintake/backend/internal/application/services"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

func newLifecycle() (*services.LifecycleService, *memSchemaRepo, *memPromptRepo) {
	schemas := &memSchemaRepo{}
	prompts := &memPromptRepo{}
	return services.NewLifecycleService(schemas, prompts, "en-US"), schemas, prompts
}

func TestCreateFormVersion_FromDefaultRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, schemas, _ := newLifecycle()

	desc := "revised"
	created, err := svc.CreateFormVersion(ctx, form, "1.1.0", entities.FormSchemaPatch{Description: &desc}, "")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", created.Version)
	assert.Equal(t, "en-US", created.Locale)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.ID)

	stored, err := schemas.Get(ctx, form, "", "en-US")
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
	assert.Equal(t, "revised", stored.Description)

	def, _ := catalog.GetDefaultForm(form)
	assert.Equal(t, def.Fields, stored.Fields)
	assert.Equal(t, def.Stages, stored.Stages)
	assert.NotEqual(t, "revised", def.Description)
}

func TestCreateFormVersion_LeavesBaseVersionUntouched(t *testing.T) {
	ctx := context.Background()
	svc, schemas, _ := newLifecycle()

	_, err := svc.CreateFormVersion(ctx, form, "1.1.0", entities.FormSchemaPatch{}, "en-US")
	require.NoError(t, err)

	fields := []entities.FieldDefinition{{Key: "age", Type: entities.FieldTypeNumber}}
	stages := []entities.StageDefinition{{ID: "only", Name: "Only", Targets: []string{"age"}, Order: 1}}
	_, err = svc.CreateFormVersion(ctx, form, "1.2.0", entities.FormSchemaPatch{Fields: &fields, Stages: &stages}, "en-US")
	require.NoError(t, err)

	v11, err := schemas.Get(ctx, form, "1.1.0", "en-US")
	require.NoError(t, err)
	assert.Greater(t, len(v11.Fields), 1)

	latest, err := schemas.Get(ctx, form, "", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", latest.Version)
	assert.Len(t, latest.Fields, 1)
}

func TestCreateFormVersion_LatestIsSemverHighest(t *testing.T) {
	ctx := context.Background()
	svc, schemas, _ := newLifecycle()

	for _, v := range []string{"1.9.0", "1.10.0", "1.2.0"} {
		_, err := svc.CreateFormVersion(ctx, form, v, entities.FormSchemaPatch{}, "en-US")
		require.NoError(t, err)
	}

	latest, err := schemas.Get(ctx, form, "", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", latest.Version)
}

func TestCreateFormVersion_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLifecycle()

	_, err := svc.CreateFormVersion(ctx, form, "latest", entities.FormSchemaPatch{}, "en-US")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateFormVersion(ctx, "missing", "1.0.0", entities.FormSchemaPatch{}, "en-US")
	assert.Equal(t, apperrors.CodeSchemaNotFound, apperrors.CodeOf(err))

	_, err = svc.CreateFormVersion(ctx, form, "1.1.0", entities.FormSchemaPatch{}, "en-US")
	require.NoError(t, err)
	_, err = svc.CreateFormVersion(ctx, form, "1.1.0", entities.FormSchemaPatch{}, "en-US")
	assert.Equal(t, apperrors.CodeDuplicateVersion, apperrors.CodeOf(err))

	bad := []entities.StageDefinition{{ID: "s", Targets: []string{"nope"}, Order: 1}}
	_, err = svc.CreateFormVersion(ctx, form, "1.3.0", entities.FormSchemaPatch{Stages: &bad}, "en-US")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreatePromptVersion_MergesSlots(t *testing.T) {
	ctx := context.Background()
	svc, _, prompts := newLifecycle()
	def, _ := catalog.GetDefaultPrompt(form, stage)

	created, err := svc.CreatePromptVersion(ctx, form, stage, "1.1.0", entities.PromptSpecPatch{
		Content:  &entities.PromptContentPatch{MainPrompt: strPtr("new main")},
		Metadata: &entities.PromptMetadataPatch{Tone: strPtr("formal")},
	}, "en-US")
	require.NoError(t, err)

	assert.Equal(t, "new main", created.Content.MainPrompt)
	assert.Equal(t, def.Content.FollowUpPrompt, created.Content.FollowUpPrompt)
	assert.Equal(t, def.Content.ExtractionPrompt, created.Content.ExtractionPrompt)
	assert.Equal(t, "formal", created.Metadata.Tone)
	assert.Equal(t, def.Metadata.Style, created.Metadata.Style)
	assert.Equal(t, def.Name, created.Name)

	second, err := svc.CreatePromptVersion(ctx, form, stage, "1.2.0", entities.PromptSpecPatch{
		Content: &entities.PromptContentPatch{FollowUpPrompt: strPtr("follow")},
	}, "en-US")
	require.NoError(t, err)
	assert.Equal(t, "new main", second.Content.MainPrompt)
	assert.Equal(t, "follow", second.Content.FollowUpPrompt)

	first, err := prompts.Get(ctx, form, stage, "en-US", "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, def.Content.FollowUpPrompt, first.Content.FollowUpPrompt)
}

func TestCreatePromptVersion_UnknownStage(t *testing.T) {
	svc, _, _ := newLifecycle()

	_, err := svc.CreatePromptVersion(context.Background(), form, "nope", "1.1.0", entities.PromptSpecPatch{}, "en-US")
	assert.Equal(t, apperrors.CodePromptNotFound, apperrors.CodeOf(err))
}

func TestPromptVersions_IndependentPerStage(t *testing.T) {
	ctx := context.Background()
	svc, _, prompts := newLifecycle()

	_, err := svc.CreatePromptVersion(ctx, form, stage, "1.5.0", entities.PromptSpecPatch{}, "en-US")
	require.NoError(t, err)
	_, err = svc.CreatePromptVersion(ctx, form, "goals_preferences", "1.1.0", entities.PromptSpecPatch{}, "en-US")
	require.NoError(t, err)

	latest, err := prompts.ListForForm(ctx, form, "en-US", "")
	require.NoError(t, err)
	require.Len(t, latest, 2)

	byStage := map[string]string{}
	for _, p := range latest {
		byStage[p.StageID] = p.Version
	}
	assert.Equal(t, "1.5.0", byStage[stage])
	assert.Equal(t, "1.1.0", byStage["goals_preferences"])
}

func TestDeactivate_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, schemas, _ := newLifecycle()

	_, err := svc.CreateFormVersion(ctx, form, "1.1.0", entities.FormSchemaPatch{}, "en-US")
	require.NoError(t, err)

	n, err := svc.DeactivateSchema(ctx, form, "1.1.0", "en-US")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.DeactivateSchema(ctx, form, "1.1.0", "en-US")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := schemas.Get(ctx, form, "", "en-US")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCreateSchemaAndPrompt_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLifecycle()

	_, err := svc.CreateSchema(ctx, &entities.FormSchema{Version: "1.0.0"})
	assert.True(t, apperrors.IsValidation(err))

	schema, err := svc.CreateSchema(ctx, &entities.FormSchema{Name: "custom", Version: "1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "en-US", schema.Locale)
	assert.NotNil(t, schema.Fields)

	_, err = svc.CreatePrompt(ctx, &entities.PromptSpec{Name: "p", FormName: form, Version: "1.0.0"})
	assert.True(t, apperrors.IsValidation(err))

	prompt, err := svc.CreatePrompt(ctx, &entities.PromptSpec{Name: "p", FormName: form, StageID: stage, Version: "2.0.0"})
	require.NoError(t, err)
	assert.True(t, prompt.IsActive)
}
