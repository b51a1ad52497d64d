package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fluentnotes/fluent-notes/internal/config"
	"github.com/fluentnotes/fluent-notes/internal/pipeline"
	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(storage *sqlite.MeetingStorage, pipelineService *pipeline.Service, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(storage, pipelineService, config, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Ingress
		router.Post("/meetings", r.handler.UploadAudio)

		// Queries
		router.Get("/meetings", r.handler.ListMeetings)
		router.Get("/meetings/search", r.handler.SearchTranscripts)
		router.Get("/meetings/{id}/summary", r.handler.GetSummary)
		router.Get("/meetings/{id}/transcript", r.handler.GetTranscript)

		// Exports
		router.Get("/meetings/{id}/export/json", r.handler.GetJSONExport)
		router.Get("/meetings/{id}/export/txt", r.handler.GetTextExport)
		router.Get("/meetings/{id}/export/pdf", r.handler.GetPDFExport)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
