package database

import (
	"context"
	_ "embed"

	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

//go:embed schema.sql
var schemaDDL string

// ApplySchema creates every table and index the adapters use. It is safe to
// run against an already initialised database.
func ApplySchema(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schemaDDL); err != nil {
		return apperrors.NewInternalError("failed to apply schema", err)
	}
	return nil
}
