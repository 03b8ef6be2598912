package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

const overridesTable = "custom_prompts"

var overrideColumns = []any{"stage_id", "question_prompt", "extraction_prompt", "created_at", "updated_at"}

// OverrideAdapter implements OverrideRepository
type OverrideAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOverrideAdapter creates a new override adapter
func NewOverrideAdapter(client *postgres.Client) repositories.OverrideRepository {
	return &OverrideAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves the override row for a stage
func (a *OverrideAdapter) Get(ctx context.Context, stageID string) (*entities.PromptOverride, error) {
	query, args, err := a.db.Select(overrideColumns...).
		From(overridesTable).
		Where(goqu.Ex{"stage_id": stageID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	override, err := scanOverride(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get prompt override", err)
	}
	return override, nil
}

// ListAll retrieves every override row
func (a *OverrideAdapter) ListAll(ctx context.Context) ([]*entities.PromptOverride, error) {
	query, args, err := a.db.Select(overrideColumns...).
		From(overridesTable).
		Order(goqu.I("stage_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list prompt overrides", err)
	}
	defer rows.Close()

	overrides := []*entities.PromptOverride{}
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan prompt override", err)
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate prompt overrides", err)
	}
	return overrides, nil
}

// Upsert writes the supplied fields in a single INSERT ... ON CONFLICT statement.
// On insert absent fields are NULL; on update they keep their stored value.
func (a *OverrideAdapter) Upsert(ctx context.Context, stageID string, patch entities.OverridePatch) (*entities.PromptOverride, error) {
	if !patch.Supplied() {
		return a.Get(ctx, stageID)
	}

	now := time.Now().UTC()
	record := goqu.Record{
		"stage_id":          stageID,
		"question_prompt":   nullable(patch.QuestionPrompt),
		"extraction_prompt": nullable(patch.ExtractionPrompt),
		"created_at":        now,
		"updated_at":        now,
	}

	update := goqu.Record{"updated_at": goqu.L("EXCLUDED.updated_at")}
	if patch.QuestionPrompt != nil {
		update["question_prompt"] = goqu.L("EXCLUDED.question_prompt")
	}
	if patch.ExtractionPrompt != nil {
		update["extraction_prompt"] = goqu.L("EXCLUDED.extraction_prompt")
	}

	query, args, err := a.db.Insert(overridesTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("stage_id", update)).
		Returning(overrideColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upsert query", err)
	}

	override, err := scanOverride(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to upsert prompt override", err)
	}
	return override, nil
}

// Clear deletes the override row for a stage
func (a *OverrideAdapter) Clear(ctx context.Context, stageID string) error {
	query, args, err := a.db.Delete(overridesTable).
		Where(goqu.Ex{"stage_id": stageID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to clear prompt override", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOverride(row rowScanner) (*entities.PromptOverride, error) {
	override := &entities.PromptOverride{}
	var question, extraction sql.NullString

	if err := row.Scan(
		&override.StageID,
		&question,
		&extraction,
		&override.CreatedAt,
		&override.UpdatedAt,
	); err != nil {
		return nil, err
	}

	override.QuestionPrompt = fromNullable(question)
	override.ExtractionPrompt = fromNullable(extraction)
	return override, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
