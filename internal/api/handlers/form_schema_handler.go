package handlers

import (
	"net/http"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
)

// FormSchemaHandler handles form schema HTTP requests
type FormSchemaHandler struct {
	resolver  Resolver
	lifecycle Lifecycle
	importer  Importer
}

// NewFormSchemaHandler creates a new form schema handler
func NewFormSchemaHandler(resolver Resolver, lifecycle Lifecycle, importer Importer) *FormSchemaHandler {
	return &FormSchemaHandler{
		resolver:  resolver,
		lifecycle: lifecycle,
		importer:  importer,
	}
}

// ListSchemas handles GET /api/form-schemas
func (h *FormSchemaHandler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, err := h.resolver.ListSchemas(r.Context(), r.URL.Query().Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, schemas)
}

// GetSchema handles GET /api/form-schemas/{name}
func (h *FormSchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	schema, err := h.resolver.ResolveForm(r.Context(), r.PathValue("name"), q.Get("version"), q.Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, schema)
}

// CreateSchema handles POST /api/form-schemas
func (h *FormSchemaHandler) CreateSchema(w http.ResponseWriter, r *http.Request) {
	var schema entities.FormSchema
	if err := decodeJSON(r, &schema); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.lifecycle.CreateSchema(r.Context(), &schema)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

type createFormVersionRequest struct {
	Version string `json:"version"`
	Locale  string `json:"locale"`
	entities.FormSchemaPatch
}

// CreateVersion handles POST /api/form-schemas/{name}/versions
func (h *FormSchemaHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var req createFormVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.lifecycle.CreateFormVersion(r.Context(), r.PathValue("name"), req.Version, req.FormSchemaPatch, req.Locale)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// DeactivateSchema handles DELETE /api/form-schemas/{name}
func (h *FormSchemaHandler) DeactivateSchema(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := r.PathValue("name")

	n, err := h.lifecycle.DeactivateSchema(r.Context(), name, q.Get("version"), q.Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	observability.LoggerFromContext(r.Context()).Info().
		Str("form", name).
		Str("version", q.Get("version")).
		Int64("rows", n).
		Msg("deactivated form schema")
	respondWithJSON(w, http.StatusOK, map[string]int64{"deactivated": n})
}

// ImportDefaults handles POST /api/form-schemas/import/wellness
func (h *FormSchemaHandler) ImportDefaults(w http.ResponseWriter, r *http.Request) {
	created, err := h.importer.ImportDefaultSchemas(r.Context(), r.URL.Query().Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}
