package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"lawdocs/internal/config"
	"lawdocs/internal/http/middleware"
	"lawdocs/internal/model"
	"lawdocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Document routes require an authenticated lawyer; health probes are open.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, policy config.UploadConfig) {
	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	h := NewDocumentHandler(docSvc, policy)

	docs := app.Group("/documents",
		middleware.Authenticate(),
		middleware.RequireRole(model.RoleLawyer),
	)
	docs.Post("/upload", h.Upload)
	docs.Get("/", h.List)
	// Fixed segments before the :id wildcard.
	docs.Get("/stats", h.Stats)
	docs.Get("/client/:clientId", h.ListByClient)
	docs.Get("/:id", h.Get)
	docs.Get("/:id/download", h.Download)
	docs.Put("/:id", h.Update)
	docs.Delete("/:id", h.Delete)
}

// HealthCheck returns a handler that reports readiness based on DB connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe returns a handler that always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
