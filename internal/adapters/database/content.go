package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

// ErrMalformedStoredContent marks a stored JSON blob that could not be decoded.
var ErrMalformedStoredContent = errors.New("malformed stored content")

const uniqueViolation = "23505"

// decodeStored decodes a jsonb column into T. Blobs written as a JSON string
// holding the document are unwrapped once.
func decodeStored[T any](raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, fmt.Errorf("%w: empty", ErrMalformedStoredContent)
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		raw = []byte(nested)
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrMalformedStoredContent, err)
	}
	return out, nil
}

// decodeOrEmpty decodes a stored blob and degrades to the zero value when it
// is malformed, logging the offending record.
func decodeOrEmpty[T any](ctx context.Context, table, id string, raw []byte) T {
	out, err := decodeStored[T](raw)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("table", table).
			Str("id", id).
			Msg("stored content could not be decoded, using empty content")
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// mapInsertError turns a unique violation into a DuplicateVersion error.
func mapInsertError(err error, identity, version, action string) error {
	if isUniqueViolation(err) {
		return apperrors.NewDuplicateVersionError(identity, version, err)
	}
	return apperrors.NewInternalError(action, err)
}
