package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/wellnessintake/backend/internal/application/services"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

func newOverrideFixture() (*services.OverrideService, *resolutionFixture) {
	f := newResolutionFixture()
	return services.NewOverrideService(f.overrides, f.service), f
}

func TestUpsertOverride_PartialPatchesAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, f := newOverrideFixture()

	resolved, err := svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{QuestionPrompt: strPtr("q")})
	require.NoError(t, err)
	assert.Equal(t, "q", resolved.QuestionPrompt)
	assert.Equal(t, defaultPrompt(t).Content.ExtractionPrompt, resolved.ExtractionPrompt)

	resolved, err = svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{ExtractionPrompt: strPtr("e")})
	require.NoError(t, err)
	assert.Equal(t, "q", resolved.QuestionPrompt)
	assert.Equal(t, "e", resolved.ExtractionPrompt)

	row := f.overrides.rows[stage]
	assert.Equal(t, "q", *row.QuestionPrompt)
	assert.Equal(t, "e", *row.ExtractionPrompt)
}

func TestUpsertOverride_AllEmptyClearsStage(t *testing.T) {
	ctx := context.Background()
	svc, f := newOverrideFixture()

	_, err := svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{
		QuestionPrompt: strPtr("q"), ExtractionPrompt: strPtr("e"),
	})
	require.NoError(t, err)

	resolved, err := svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{QuestionPrompt: strPtr("")})
	require.NoError(t, err)

	assert.NotContains(t, f.overrides.rows, stage)
	assert.Equal(t, defaultPrompt(t).Content.MainPrompt, resolved.QuestionPrompt)
	assert.Equal(t, defaultPrompt(t).Content.ExtractionPrompt, resolved.ExtractionPrompt)
}

func TestUpsertOverride_MixedEmptyStoresExplicitEmpty(t *testing.T) {
	ctx := context.Background()
	svc, f := newOverrideFixture()

	resolved, err := svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{
		QuestionPrompt: strPtr(""), ExtractionPrompt: strPtr("e"),
	})
	require.NoError(t, err)

	assert.Equal(t, "", resolved.QuestionPrompt)
	assert.Equal(t, "e", resolved.ExtractionPrompt)
	require.Contains(t, f.overrides.rows, stage)
	assert.Equal(t, "", *f.overrides.rows[stage].QuestionPrompt)
}

func TestUpsertOverride_NothingSuppliedIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, f := newOverrideFixture()

	resolved, err := svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{})
	require.NoError(t, err)
	assert.Equal(t, defaultPrompt(t).Content.MainPrompt, resolved.QuestionPrompt)
	assert.Empty(t, f.overrides.rows)
}

func TestUpsertOverride_UnknownStage(t *testing.T) {
	svc, f := newOverrideFixture()

	_, err := svc.UpsertOverride(context.Background(), "ghost_stage", "en-US", entities.OverridePatch{QuestionPrompt: strPtr("x")})
	assert.Equal(t, apperrors.CodeStageNotFound, apperrors.CodeOf(err))
	assert.Zero(t, f.overrides.calls)
}

func TestClearOverride(t *testing.T) {
	ctx := context.Background()
	svc, f := newOverrideFixture()

	_, err := svc.UpsertOverride(ctx, stage, "en-US", entities.OverridePatch{QuestionPrompt: strPtr("q")})
	require.NoError(t, err)

	overrides, err := svc.ListOverrides(ctx)
	require.NoError(t, err)
	assert.Len(t, overrides, 1)

	resolved, err := svc.ClearOverride(ctx, stage, "en-US")
	require.NoError(t, err)
	assert.Equal(t, defaultPrompt(t).Content.MainPrompt, resolved.QuestionPrompt)
	assert.Empty(t, f.overrides.rows)

	_, err = svc.ClearOverride(ctx, "ghost_stage", "en-US")
	assert.True(t, apperrors.IsNotFound(err))
}
