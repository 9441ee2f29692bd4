package api

import (
	"net/http"
	"time"

	askapi "github.com/filescout/filescout-backend/internal/api/ask"
	"github.com/filescout/filescout-backend/internal/api/docs"
	documentapi "github.com/filescout/filescout-backend/internal/api/document"
	ingestapi "github.com/filescout/filescout-backend/internal/api/ingest"
	"github.com/filescout/filescout-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	ingestHandler *ingestapi.Handler,
	askHandler *askapi.Handler,
	documentHandler *documentapi.Handler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                  // Recover from panics
	r.Use(chimiddleware.RequestID)                  // Add request ID
	r.Use(middleware.Logger(logger))                // Log requests
	r.Use(chimiddleware.Timeout(120 * time.Second)) // Ingestion of a full batch can be slow

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	ingestapi.RegisterRoutes(r, ingestHandler)
	askapi.RegisterRoutes(r, askHandler)
	documentapi.RegisterRoutes(r, documentHandler)

	return r
}
