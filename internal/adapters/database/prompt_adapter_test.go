package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

func promptRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "stage_id", "form_name", "version", "locale",
		"prompt_data", "is_active", "created_by", "created_at", "updated_at",
	})
}

func promptData(main string) []byte {
	return []byte(`{"content":{"main_prompt":"` + main + `"},"metadata":{"tone":"friendly"}}`)
}

func TestPromptAdapter_ListForForm_LatestPerStageIndependently(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "prompts" WHERE .*"form_name" = 'wellness_intake'`).
		WillReturnRows(promptRows().
			AddRow("a1", "A", nil, "stage_a", "wellness_intake", "1.0.0", "en-US", promptData("a1"), true, nil, testTime, testTime).
			AddRow("a2", "A", nil, "stage_a", "wellness_intake", "1.2.0", "en-US", promptData("a2"), true, nil, testTime, testTime).
			AddRow("b1", "B", nil, "stage_b", "wellness_intake", "1.0.0", "en-US", promptData("b1"), true, nil, testTime, testTime))

	prompts, err := adapter.ListForForm(context.Background(), "wellness_intake", "en-US", "")
	require.NoError(t, err)
	require.Len(t, prompts, 2)

	assert.Equal(t, "stage_a", prompts[0].StageID)
	assert.Equal(t, "1.2.0", prompts[0].Version)
	assert.Equal(t, "a2", prompts[0].Content.MainPrompt)
	assert.Equal(t, "stage_b", prompts[1].StageID)
	assert.Equal(t, "1.0.0", prompts[1].Version)
	assert.Equal(t, "friendly", prompts[1].Metadata.Tone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromptAdapter_Get_DegradesUndecodableContent(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "prompts"`).
		WillReturnRows(promptRows().
			AddRow("p1", "P", "desc", "stage_a", "wellness_intake", "1.0.0", "en-US", []byte(`"[object Object]"`), true, "system", testTime, testTime))

	prompt, err := adapter.Get(context.Background(), "wellness_intake", "stage_a", "en-US", "")
	require.NoError(t, err)
	require.NotNil(t, prompt)
	assert.Equal(t, entities.PromptContent{}, prompt.Content)
	assert.Equal(t, "desc", prompt.Description)
	assert.Equal(t, "system", prompt.CreatedBy)
}

func TestPromptAdapter_Get_StringEncodedContent(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "prompts"`).
		WillReturnRows(promptRows().
			AddRow("p1", "P", nil, "stage_a", "wellness_intake", "1.0.0", "en-US",
				[]byte(`"{\"content\":{\"main_prompt\":\"hi\"}}"`), true, nil, testTime, testTime))

	prompt, err := adapter.Get(context.Background(), "wellness_intake", "stage_a", "en-US", "")
	require.NoError(t, err)
	assert.Equal(t, "hi", prompt.Content.MainPrompt)
}

func TestPromptAdapter_Get_NotFoundIsNil(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectQuery(`SELECT .* FROM "prompts"`).WillReturnRows(promptRows())

	prompt, err := adapter.Get(context.Background(), "wellness_intake", "missing", "en-US", "")
	require.NoError(t, err)
	assert.Nil(t, prompt)
}

func TestPromptAdapter_List_AppliesFilters(t *testing.T) {
	client, mock, captured := setupCapturingClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectQuery("").WillReturnRows(promptRows().
		AddRow("a2", "A", nil, "stage_a", "wellness_intake", "1.10.0", "en-US", promptData("x"), false, nil, testTime, testTime).
		AddRow("a1", "A", nil, "stage_a", "wellness_intake", "1.9.0", "en-US", promptData("x"), false, nil, testTime, testTime))

	inactive := false
	prompts, err := adapter.List(context.Background(), repositories.PromptFilter{
		FormName: "wellness_intake",
		StageID:  "stage_a",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "1.9.0", prompts[0].Version)
	assert.Equal(t, "1.10.0", prompts[1].Version)

	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0], `"is_active" IS FALSE`)
	assert.Contains(t, (*captured)[0], `"stage_id" = 'stage_a'`)
	assert.NotContains(t, (*captured)[0], `"locale" =`)
}

func TestPromptAdapter_Create_DuplicateVersion(t *testing.T) {
	client, mock := setupMockClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectExec(`INSERT INTO "prompts"`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := adapter.Create(context.Background(), &entities.PromptSpec{
		ID: "p1", StageID: "stage_a", FormName: "wellness_intake", Version: "1.0.0", Locale: "en-US",
	})
	assert.True(t, apperrors.IsConflict(err))
	assert.Contains(t, err.Error(), "wellness_intake/stage_a/en-US")
}

func TestPromptAdapter_Deactivate_SingleVersion(t *testing.T) {
	client, mock, captured := setupCapturingClient(t)
	adapter := NewPromptAdapter(client)

	mock.ExpectExec("").WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := adapter.Deactivate(context.Background(), "wellness_intake", "stage_a", "1.0.0", "en-US")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Contains(t, (*captured)[0], `"version" = '1.0.0'`)
}
