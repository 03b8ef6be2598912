package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
	"github.com/zatekoja/wellnessintake/backend/pkg/version"
)

const formSchemasTable = "form_schemas"

var formSchemaColumns = []any{
	"id", "name", "description", "version", "locale", "schema_data",
	"is_active", "created_by", "created_at", "updated_at",
}

// FormSchemaAdapter implements FormSchemaRepository
type FormSchemaAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFormSchemaAdapter creates a new form schema adapter
func NewFormSchemaAdapter(client *postgres.Client) repositories.FormSchemaRepository {
	return &FormSchemaAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListActive retrieves every active schema for a locale
func (a *FormSchemaAdapter) ListActive(ctx context.Context, locale string) ([]*entities.FormSchema, error) {
	query, args, err := a.db.Select(formSchemaColumns...).
		From(formSchemasTable).
		Where(goqu.Ex{"is_active": true, "locale": locale}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	schemas, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(schemas, func(i, j int) bool {
		if schemas[i].Name != schemas[j].Name {
			return schemas[i].Name < schemas[j].Name
		}
		return version.Less(schemas[i].Version, schemas[j].Version)
	})
	return schemas, nil
}

// Get retrieves the latest active version, or the exact active version when given
func (a *FormSchemaAdapter) Get(ctx context.Context, name, ver, locale string) (*entities.FormSchema, error) {
	where := goqu.Ex{"name": name, "locale": locale, "is_active": true}
	if ver != "" {
		where["version"] = ver
	}

	query, args, err := a.db.Select(formSchemaColumns...).
		From(formSchemasTable).
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	schemas, err := a.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	versions := make([]string, len(schemas))
	for i, s := range schemas {
		versions[i] = s.Version
	}
	if idx := version.Latest(versions); idx >= 0 {
		return schemas[idx], nil
	}
	return nil, nil
}

// Create stores a new schema version
func (a *FormSchemaAdapter) Create(ctx context.Context, schema *entities.FormSchema) error {
	data, err := json.Marshal(entities.FormSchemaContent{Fields: schema.Fields, Stages: schema.Stages})
	if err != nil {
		return apperrors.NewInternalError("failed to encode schema data", err)
	}

	record := goqu.Record{
		"id":          schema.ID,
		"name":        schema.Name,
		"description": sql.NullString{String: schema.Description, Valid: schema.Description != ""},
		"version":     schema.Version,
		"locale":      schema.Locale,
		"schema_data": string(data),
		"is_active":   schema.IsActive,
		"created_by":  sql.NullString{String: schema.CreatedBy, Valid: schema.CreatedBy != ""},
		"created_at":  schema.CreatedAt,
		"updated_at":  schema.UpdatedAt,
	}

	query, args, err := a.db.Insert(formSchemasTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return mapInsertError(err, schema.Name+"/"+schema.Locale, schema.Version, "failed to create form schema")
	}
	return nil
}

// Deactivate flips is_active off for one version or all versions
func (a *FormSchemaAdapter) Deactivate(ctx context.Context, name, ver, locale string) (int64, error) {
	where := goqu.Ex{"name": name, "locale": locale}
	if ver != "" {
		where["version"] = ver
	}

	query, args, err := a.db.Update(formSchemasTable).
		Set(goqu.Record{"is_active": false, "updated_at": time.Now().UTC()}).
		Where(where).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to deactivate form schema", err)
	}
	return result.RowsAffected()
}

func (a *FormSchemaAdapter) query(ctx context.Context, query string, args ...any) ([]*entities.FormSchema, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query form schemas", err)
	}
	defer rows.Close()

	schemas := []*entities.FormSchema{}
	for rows.Next() {
		schema := &entities.FormSchema{}
		var description, createdBy sql.NullString
		var data []byte

		if err := rows.Scan(
			&schema.ID,
			&schema.Name,
			&description,
			&schema.Version,
			&schema.Locale,
			&data,
			&schema.IsActive,
			&createdBy,
			&schema.CreatedAt,
			&schema.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan form schema", err)
		}

		schema.Description = description.String
		schema.CreatedBy = createdBy.String

		content := decodeOrEmpty[entities.FormSchemaContent](ctx, formSchemasTable, schema.ID, data)
		schema.Fields = content.Fields
		schema.Stages = content.Stages
		if schema.Fields == nil {
			schema.Fields = []entities.FieldDefinition{}
		}
		if schema.Stages == nil {
			schema.Stages = []entities.StageDefinition{}
		}

		schemas = append(schemas, schema)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate form schemas", err)
	}
	return schemas, nil
}
