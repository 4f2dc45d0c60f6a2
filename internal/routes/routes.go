package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/organizr-dev/organizr-api/internal/handlers"
	"github.com/organizr-dev/organizr-api/internal/middleware"
	"github.com/organizr-dev/organizr-api/internal/services"
)

func Setup(
	app *fiber.App,
	auth *services.AuthService,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	taskHandler *handlers.TaskHandler,
	noteHandler *handlers.NoteHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Everything below authenticates via X-API-Key
	protected := api.Group("", middleware.APIKeyRequired(auth))

	protected.Get("/me", userHandler.Me)

	// User management. Provisioning and listing are admin-only; the
	// per-user routes authorize admin-or-self in the handler.
	users := protected.Group("/users")
	users.Post("", middleware.AdminRequired(), userHandler.Create)
	users.Get("", middleware.AdminRequired(), userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Post("/:id/credentials", userHandler.RotateCredential)
	users.Delete("/:id", userHandler.Delete)

	// Calendar events and their occurrence expansion
	events := protected.Group("/events")
	events.Post("", eventHandler.Create)
	events.Get("", eventHandler.List)
	events.Get("/occurrences", eventHandler.Occurrences)
	events.Get("/:id", eventHandler.Get)
	events.Patch("/:id", eventHandler.Update)
	events.Delete("/:id", eventHandler.Delete)
	events.Put("/:id/occurrences", eventHandler.PutException)
	events.Delete("/:id/occurrences", eventHandler.DeleteException)

	// Tasks mirror the event series surface on their due instant
	tasks := protected.Group("/tasks")
	tasks.Post("", taskHandler.Create)
	tasks.Get("", taskHandler.List)
	tasks.Get("/occurrences", taskHandler.Occurrences)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Patch("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)
	tasks.Put("/:id/occurrences", taskHandler.PutException)
	tasks.Delete("/:id/occurrences", taskHandler.DeleteException)

	notes := protected.Group("/notes")
	notes.Post("", noteHandler.Create)
	notes.Get("", noteHandler.List)
	notes.Get("/:id", noteHandler.Get)
	notes.Patch("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)
}
