package handlers

import "net/http"

// CoachHandler handles coach HTTP requests
type CoachHandler struct {
	coaches CoachService
}

// NewCoachHandler creates a new coach handler
func NewCoachHandler(coaches CoachService) *CoachHandler {
	return &CoachHandler{coaches: coaches}
}

// List handles GET /api/coaches
func (h *CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	coaches, err := h.coaches.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, coaches)
}

// Get handles GET /api/coaches/{id}
func (h *CoachHandler) Get(w http.ResponseWriter, r *http.Request) {
	coach, err := h.coaches.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, coach)
}

type updateCoachRequest struct {
	CoachPromptContent string `json:"coach_prompt_content"`
}

// UpdatePrompt handles PUT /api/coaches/{id}; only the prompt content changes
func (h *CoachHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req updateCoachRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	coach, err := h.coaches.UpdatePromptContent(r.Context(), r.PathValue("id"), req.CoachPromptContent)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, coach)
}
