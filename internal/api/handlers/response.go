package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
)

// envelope is the body of every API response
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: payload})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithErrorCode(w, statusCode, message, "")
}

func respondWithErrorCode(w http.ResponseWriter, statusCode int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: message, Code: code})
}

// respondWithAppError maps an AppError to its HTTP status. Internal details
// are logged and never echoed.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithErrorCode(w, http.StatusNotFound, appErr.Message, appErr.Code)
	case apperrors.ErrorTypeValidation:
		respondWithErrorCode(w, http.StatusBadRequest, appErr.Message, appErr.Code)
	case apperrors.ErrorTypeConflict:
		respondWithErrorCode(w, http.StatusConflict, appErr.Message, appErr.Code)
	case apperrors.ErrorTypeExternal:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("upstream failure")
		respondWithError(w, http.StatusBadGateway, "upstream service error")
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.NewValidationError("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}

// queryInt parses an optional integer query parameter; absent or malformed
// values yield def
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryBool parses an optional boolean query parameter
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(key + " must be true or false")
	}
	return &v, nil
}
