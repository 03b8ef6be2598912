package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/wellnessintake/backend/internal/application/services"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
)

// WellnessSessionHandler handles interview session and user HTTP requests
type WellnessSessionHandler struct {
	sessions SessionService
}

// NewWellnessSessionHandler creates a new wellness session handler
func NewWellnessSessionHandler(sessions SessionService) *WellnessSessionHandler {
	return &WellnessSessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	Email           string          `json:"email"`
	Transcription   string          `json:"transcription"`
	Summary         string          `json:"summary"`
	BotConversation *string         `json:"bot_conversation"`
	WellnessData    json.RawMessage `json:"wellness_data"`
	AnalysisResults json.RawMessage `json:"analysis_results"`
}

// Create handles POST /api/interviews
func (h *WellnessSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), &entities.WellnessSession{
		UserID:          req.Email,
		Transcription:   req.Transcription,
		Summary:         req.Summary,
		BotConversation: req.BotConversation,
		WellnessData:    req.WellnessData,
		AnalysisResults: req.AnalysisResults,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// List handles GET /api/interviews
func (h *WellnessSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context(),
		r.URL.Query().Get("email"),
		queryInt(r, "limit", services.DefaultSessionPageSize),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

// Get handles GET /api/interviews/{id}
func (h *WellnessSessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.Context(), r.PathValue("id"), r.URL.Query().Get("email"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

type updateSessionRequest struct {
	Email string `json:"email"`
	entities.WellnessSessionUpdate
}

// Update handles PUT /api/interviews/{id}
func (h *WellnessSessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	session, err := h.sessions.Update(r.Context(), r.PathValue("id"), req.Email, req.WellnessSessionUpdate)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// Delete handles DELETE /api/interviews/{id}
func (h *WellnessSessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), r.PathValue("id"), r.URL.Query().Get("email")); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListUsers handles GET /api/users
func (h *WellnessSessionHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.sessions.ListUsers(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}
