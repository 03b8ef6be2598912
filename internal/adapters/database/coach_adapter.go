package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

const coachesTable = "coaches"

var coachColumns = []any{
	"id", "name", "description", "coach_prompt_content", "is_active", "tags", "created_at", "updated_at",
}

// CoachAdapter implements CoachRepository
type CoachAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCoachAdapter creates a new coach adapter
func NewCoachAdapter(client *postgres.Client) repositories.CoachRepository {
	return &CoachAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves every coach, oldest first
func (a *CoachAdapter) List(ctx context.Context) ([]*entities.Coach, error) {
	query, args, err := a.db.Select(coachColumns...).
		From(coachesTable).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list coaches", err)
	}
	defer rows.Close()

	coaches := []*entities.Coach{}
	for rows.Next() {
		coach, err := scanCoach(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan coach", err)
		}
		coaches = append(coaches, coach)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate coaches", err)
	}
	return coaches, nil
}

// GetByID retrieves a coach; ids that are not UUIDs match nothing
func (a *CoachAdapter) GetByID(ctx context.Context, id string) (*entities.Coach, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query, args, err := a.db.Select(coachColumns...).
		From(coachesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	coach, err := scanCoach(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get coach", err)
	}
	return coach, nil
}

// UpdatePromptContent replaces a coach's prompt content
func (a *CoachAdapter) UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query, args, err := a.db.Update(coachesTable).
		Set(goqu.Record{"coach_prompt_content": content, "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"id": id}).
		Returning(coachColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	coach, err := scanCoach(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update coach", err)
	}
	return coach, nil
}

// EnsureCoach inserts the coach unless one with the same name exists, and
// reports whether a row was written
func (a *CoachAdapter) EnsureCoach(ctx context.Context, coach *entities.Coach) (bool, error) {
	record := goqu.Record{
		"id":                   coach.ID,
		"name":                 coach.Name,
		"description":          sql.NullString{String: coach.Description, Valid: coach.Description != ""},
		"coach_prompt_content": coach.CoachPromptContent,
		"is_active":            coach.IsActive,
		"tags":                 pq.Array(coach.Tags),
		"created_at":           coach.CreatedAt,
		"updated_at":           coach.UpdatedAt,
	}

	query, args, err := a.db.Insert(coachesTable).
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.NewInternalError("failed to insert coach", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read affected rows", err)
	}
	return affected > 0, nil
}

func scanCoach(row rowScanner) (*entities.Coach, error) {
	coach := &entities.Coach{}
	var description sql.NullString

	if err := row.Scan(
		&coach.ID,
		&coach.Name,
		&description,
		&coach.CoachPromptContent,
		&coach.IsActive,
		pq.Array(&coach.Tags),
		&coach.CreatedAt,
		&coach.UpdatedAt,
	); err != nil {
		return nil, err
	}

	coach.Description = description.String
	if coach.Tags == nil {
		coach.Tags = []string{}
	}
	return coach, nil
}
