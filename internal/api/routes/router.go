package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zatekoja/wellnessintake/backend/internal/api/handlers"
	"github.com/zatekoja/wellnessintake/backend/internal/api/middleware"
	"github.com/zatekoja/wellnessintake/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	formSchemaHandler *handlers.FormSchemaHandler
	promptHandler     *handlers.PromptHandler
	sessionHandler    *handlers.WellnessSessionHandler
	coachHandler      *handlers.CoachHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	formSchemaHandler *handlers.FormSchemaHandler,
	promptHandler *handlers.PromptHandler,
	sessionHandler *handlers.WellnessSessionHandler,
	coachHandler *handlers.CoachHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		formSchemaHandler: formSchemaHandler,
		promptHandler:     promptHandler,
		sessionHandler:    sessionHandler,
		coachHandler:      coachHandler,
		allowedOrigins:    allowedOrigins,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Form schemas
	r.mux.HandleFunc("GET /api/form-schemas", r.formSchemaHandler.ListSchemas)
	r.mux.HandleFunc("POST /api/form-schemas", r.formSchemaHandler.CreateSchema)
	r.mux.HandleFunc("POST /api/form-schemas/import/wellness", r.formSchemaHandler.ImportDefaults)
	r.mux.HandleFunc("GET /api/form-schemas/{name}", r.formSchemaHandler.GetSchema)
	r.mux.HandleFunc("POST /api/form-schemas/{name}/versions", r.formSchemaHandler.CreateVersion)
	r.mux.HandleFunc("DELETE /api/form-schemas/{name}", r.formSchemaHandler.DeactivateSchema)

	// Resolved prompts and overrides
	r.mux.HandleFunc("GET /api/prompts", r.promptHandler.ResolveAll)
	r.mux.HandleFunc("GET /api/prompts/{stageId}", r.promptHandler.Resolve)
	r.mux.HandleFunc("PUT /api/prompts/{stageId}", r.promptHandler.UpsertOverride)
	r.mux.HandleFunc("DELETE /api/prompts/{stageId}/override", r.promptHandler.ClearOverride)
	r.mux.HandleFunc("GET /api/overrides", r.promptHandler.ListOverrides)

	// Versioned prompt specs
	r.mux.HandleFunc("GET /api/prompt-specs", r.promptHandler.ListSpecs)
	r.mux.HandleFunc("POST /api/prompt-specs", r.promptHandler.CreateSpec)
	r.mux.HandleFunc("POST /api/prompt-specs/import/wellness", r.promptHandler.ImportDefaults)
	r.mux.HandleFunc("GET /api/forms/{formName}/prompts", r.promptHandler.FormPrompts)
	r.mux.HandleFunc("GET /api/forms/{formName}/stages/{stageId}/prompt", r.promptHandler.StagePrompt)
	r.mux.HandleFunc("POST /api/forms/{formName}/stages/{stageId}/prompt/versions", r.promptHandler.CreateStageVersion)
	r.mux.HandleFunc("DELETE /api/forms/{formName}/stages/{stageId}/prompt", r.promptHandler.DeactivateStagePrompt)

	// Interviews and users
	r.mux.HandleFunc("POST /api/interviews", r.sessionHandler.Create)
	r.mux.HandleFunc("GET /api/interviews", r.sessionHandler.List)
	r.mux.HandleFunc("GET /api/interviews/{id}", r.sessionHandler.Get)
	r.mux.HandleFunc("PUT /api/interviews/{id}", r.sessionHandler.Update)
	r.mux.HandleFunc("DELETE /api/interviews/{id}", r.sessionHandler.Delete)
	r.mux.HandleFunc("GET /api/users", r.sessionHandler.ListUsers)

	// Coaches
	r.mux.HandleFunc("GET /api/coaches", r.coachHandler.List)
	r.mux.HandleFunc("GET /api/coaches/{id}", r.coachHandler.Get)
	r.mux.HandleFunc("PUT /api/coaches/{id}", r.coachHandler.UpdatePrompt)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
