package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
	"github.com/zatekoja/wellnessintake/backend/pkg/version"
)

const promptsTable = "prompts"

var promptColumns = []any{
	"id", "name", "description", "stage_id", "form_name", "version", "locale",
	"prompt_data", "is_active", "created_by", "created_at", "updated_at",
}

// PromptAdapter implements PromptRepository
type PromptAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPromptAdapter creates a new prompt adapter
func NewPromptAdapter(client *postgres.Client) repositories.PromptRepository {
	return &PromptAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves prompts with filters
func (a *PromptAdapter) List(ctx context.Context, filter repositories.PromptFilter) ([]*entities.PromptSpec, error) {
	where := goqu.Ex{}
	if filter.FormName != "" {
		where["form_name"] = filter.FormName
	}
	if filter.StageID != "" {
		where["stage_id"] = filter.StageID
	}
	if filter.Locale != "" {
		where["locale"] = filter.Locale
	}
	if filter.IsActive != nil {
		where["is_active"] = *filter.IsActive
	}

	ds := a.db.Select(promptColumns...).From(promptsTable)
	if len(where) > 0 {
		ds = ds.Where(where)
	}
	query, args, err := ds.Order(goqu.I("form_name").Asc(), goqu.I("stage_id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	prompts, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	sortPrompts(prompts)
	return prompts, nil
}

// ListForForm retrieves the latest active version of each stage, or every
// stage at the given version
func (a *PromptAdapter) ListForForm(ctx context.Context, formName, locale, ver string) ([]*entities.PromptSpec, error) {
	where := goqu.Ex{"form_name": formName, "locale": locale, "is_active": true}
	if ver != "" {
		where["version"] = ver
	}

	query, args, err := a.db.Select(promptColumns...).
		From(promptsTable).
		Where(where).
		Order(goqu.I("stage_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	prompts, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return latestPerStage(prompts), nil
}

// Get retrieves one stage prompt
func (a *PromptAdapter) Get(ctx context.Context, formName, stageID, locale, ver string) (*entities.PromptSpec, error) {
	where := goqu.Ex{"form_name": formName, "stage_id": stageID, "locale": locale, "is_active": true}
	if ver != "" {
		where["version"] = ver
	}

	query, args, err := a.db.Select(promptColumns...).
		From(promptsTable).
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	prompts, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	latest := latestPerStage(prompts)
	if len(latest) == 0 {
		return nil, nil
	}
	return latest[0], nil
}

// Create stores a new prompt version
func (a *PromptAdapter) Create(ctx context.Context, prompt *entities.PromptSpec) error {
	data, err := json.Marshal(entities.PromptData{Content: prompt.Content, Metadata: prompt.Metadata})
	if err != nil {
		return apperrors.NewInternalError("failed to encode prompt data", err)
	}

	record := goqu.Record{
		"id":          prompt.ID,
		"name":        prompt.Name,
		"description": sql.NullString{String: prompt.Description, Valid: prompt.Description != ""},
		"stage_id":    prompt.StageID,
		"form_name":   prompt.FormName,
		"version":     prompt.Version,
		"locale":      prompt.Locale,
		"prompt_data": string(data),
		"is_active":   prompt.IsActive,
		"created_by":  sql.NullString{String: prompt.CreatedBy, Valid: prompt.CreatedBy != ""},
		"created_at":  prompt.CreatedAt,
		"updated_at":  prompt.UpdatedAt,
	}

	query, args, err := a.db.Insert(promptsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		identity := prompt.FormName + "/" + prompt.StageID + "/" + prompt.Locale
		return mapInsertError(err, identity, prompt.Version, "failed to create prompt")
	}
	return nil
}

// Deactivate flips is_active off for one version or all versions of a stage prompt
func (a *PromptAdapter) Deactivate(ctx context.Context, formName, stageID, ver, locale string) (int64, error) {
	where := goqu.Ex{"form_name": formName, "stage_id": stageID, "locale": locale}
	if ver != "" {
		where["version"] = ver
	}

	query, args, err := a.db.Update(promptsTable).
		Set(goqu.Record{"is_active": false, "updated_at": time.Now().UTC()}).
		Where(where).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to deactivate prompt", err)
	}
	return result.RowsAffected()
}

func (a *PromptAdapter) query(ctx context.Context, query string, args ...any) ([]*entities.PromptSpec, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query prompts", err)
	}
	defer rows.Close()

	prompts := []*entities.PromptSpec{}
	for rows.Next() {
		prompt := &entities.PromptSpec{}
		var description, createdBy sql.NullString
		var data []byte

		if err := rows.Scan(
			&prompt.ID,
			&prompt.Name,
			&description,
			&prompt.StageID,
			&prompt.FormName,
			&prompt.Version,
			&prompt.Locale,
			&data,
			&prompt.IsActive,
			&createdBy,
			&prompt.CreatedAt,
			&prompt.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan prompt", err)
		}

		prompt.Description = description.String
		prompt.CreatedBy = createdBy.String

		decoded := decodeOrEmpty[entities.PromptData](ctx, promptsTable, prompt.ID, data)
		prompt.Content = decoded.Content
		prompt.Metadata = decoded.Metadata

		prompts = append(prompts, prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate prompts", err)
	}
	return prompts, nil
}

// latestPerStage keeps the highest version of every stage, ordered by stage id.
func latestPerStage(prompts []*entities.PromptSpec) []*entities.PromptSpec {
	best := make(map[string]*entities.PromptSpec, len(prompts))
	for _, p := range prompts {
		if cur, ok := best[p.StageID]; !ok || version.Compare(p.Version, cur.Version) > 0 {
			best[p.StageID] = p
		}
	}

	out := make([]*entities.PromptSpec, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageID < out[j].StageID })
	return out
}

func sortPrompts(prompts []*entities.PromptSpec) {
	sort.SliceStable(prompts, func(i, j int) bool {
		a, b := prompts[i], prompts[j]
		if a.FormName != b.FormName {
			return a.FormName < b.FormName
		}
		if a.StageID != b.StageID {
			return a.StageID < b.StageID
		}
		return version.Less(a.Version, b.Version)
	})
}
