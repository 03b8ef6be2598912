package handlers

import (
	"net/http"

	"github.com/zatekoja/wellnessintake/backend/internal/domain/catalog"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
)

// PromptHandler handles resolved prompts, overrides and versioned prompt specs
type PromptHandler struct {
	resolver  Resolver
	lifecycle Lifecycle
	overrides OverrideEditor
	importer  Importer
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(resolver Resolver, lifecycle Lifecycle, overrides OverrideEditor, importer Importer) *PromptHandler {
	return &PromptHandler{
		resolver:  resolver,
		lifecycle: lifecycle,
		overrides: overrides,
		importer:  importer,
	}
}

func formNameParam(r *http.Request) string {
	if name := r.URL.Query().Get("form_name"); name != "" {
		return name
	}
	return catalog.WellnessFormName
}

// ResolveAll handles GET /api/prompts
func (h *PromptHandler) ResolveAll(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.resolver.ResolveAllPrompts(r.Context(), formNameParam(r), r.URL.Query().Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolved)
}

// Resolve handles GET /api/prompts/{stageId}
func (h *PromptHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.resolver.ResolvePrompt(r.Context(), formNameParam(r), r.PathValue("stageId"), r.URL.Query().Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolved)
}

// UpsertOverride handles PUT /api/prompts/{stageId}. A field that is absent or
// null is left as it is.
func (h *PromptHandler) UpsertOverride(w http.ResponseWriter, r *http.Request) {
	var patch entities.OverridePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resolved, err := h.overrides.UpsertOverride(r.Context(), r.PathValue("stageId"), r.URL.Query().Get("locale"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolved)
}

// ClearOverride handles DELETE /api/prompts/{stageId}/override
func (h *PromptHandler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.overrides.ClearOverride(r.Context(), r.PathValue("stageId"), r.URL.Query().Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolved)
}

// ListOverrides handles GET /api/overrides
func (h *PromptHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.overrides.ListOverrides(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, overrides)
}

// ListSpecs handles GET /api/prompt-specs
func (h *PromptHandler) ListSpecs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	isActive, err := queryBool(r, "is_active")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	prompts, err := h.resolver.ListPrompts(r.Context(), repositories.PromptFilter{
		FormName: q.Get("form_name"),
		StageID:  q.Get("stage_id"),
		Locale:   q.Get("locale"),
		IsActive: isActive,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, prompts)
}

// CreateSpec handles POST /api/prompt-specs
func (h *PromptHandler) CreateSpec(w http.ResponseWriter, r *http.Request) {
	var prompt entities.PromptSpec
	if err := decodeJSON(r, &prompt); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.lifecycle.CreatePrompt(r.Context(), &prompt)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// ImportDefaults handles POST /api/prompt-specs/import/wellness
func (h *PromptHandler) ImportDefaults(w http.ResponseWriter, r *http.Request) {
	created, err := h.importer.ImportDefaultPrompts(r.Context(), r.URL.Query().Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// FormPrompts handles GET /api/forms/{formName}/prompts
func (h *PromptHandler) FormPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bot, err := h.resolver.GetFormPromptsForBot(r.Context(), r.PathValue("formName"), q.Get("locale"), q.Get("version"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, bot)
}

// StagePrompt handles GET /api/forms/{formName}/stages/{stageId}/prompt
func (h *PromptHandler) StagePrompt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prompt, err := h.resolver.GetStagePrompt(r.Context(), r.PathValue("formName"), r.PathValue("stageId"), q.Get("locale"), q.Get("version"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, prompt)
}

type createPromptVersionRequest struct {
	Version string `json:"version"`
	Locale  string `json:"locale"`
	entities.PromptSpecPatch
}

// CreateStageVersion handles POST /api/forms/{formName}/stages/{stageId}/prompt/versions
func (h *PromptHandler) CreateStageVersion(w http.ResponseWriter, r *http.Request) {
	var req createPromptVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.lifecycle.CreatePromptVersion(r.Context(),
		r.PathValue("formName"), r.PathValue("stageId"), req.Version, req.PromptSpecPatch, req.Locale)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// DeactivateStagePrompt handles DELETE /api/forms/{formName}/stages/{stageId}/prompt
func (h *PromptHandler) DeactivateStagePrompt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := h.lifecycle.DeactivatePrompt(r.Context(), r.PathValue("formName"), r.PathValue("stageId"), q.Get("version"), q.Get("locale"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"deactivated": n})
}
