package api

import (
	"github.com/feedwire/newsdesk/internal/config"
	"github.com/feedwire/newsdesk/internal/curation"
	"github.com/feedwire/newsdesk/internal/middleware"
	"github.com/feedwire/newsdesk/internal/sources"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, repo sources.Repository, manager *curation.Manager) {
	handlers := NewHandlers(cfg, repo, manager)

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)
	api.Get("/articles", handlers.GetArticles)
	api.Get("/categories", handlers.GetCategories)

	// Custom source management
	src := api.Group("/sources", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		src.Get("", handlers.ListSources)
		src.Post("", handlers.AddSource)
		src.Delete("", handlers.RemoveSource)
		src.Put("/active", handlers.SetActiveSource)
	}

	// Curation workflow
	cur := api.Group("/curation", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		cur.Get("/:session", handlers.GetSession)
		cur.Post("/:session/select", handlers.SelectArticle)
		cur.Delete("/:session/select", handlers.DeselectArticle)
		cur.Post("/:session/summarize", handlers.Summarize)
		cur.Post("/:session/summaries/:index/approve", handlers.ApproveSummary)
		cur.Post("/:session/summaries/:index/reject", handlers.RejectSummary)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
