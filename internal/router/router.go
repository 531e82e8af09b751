package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillforge/lms-api/internal/config"
	"github.com/skillforge/lms-api/internal/handler"
	"github.com/skillforge/lms-api/internal/middleware"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	NotificationHandler *handler.NotificationHandler
	RealtimeHandler     *handler.RealtimeHandler
	ActivityHandler     *handler.ActivityHandler
	RosterHandler       *handler.RosterHandler
	LeaveHandler        *handler.LeaveHandler
	MaterialHandler     *handler.MaterialHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		notifications.Post("/send",
			middleware.RequireRole(models.RoleAdmin),
			middleware.RateLimit("notification_send", 10, time.Minute),
			deps.NotificationHandler.Send)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.RealtimeHandler != nil {
		realtime := api.Group("/realtime", jwtMiddleware)
		deps.RealtimeHandler.Register(realtime)
	}

	if deps.LeaveHandler != nil {
		leaves := api.Group("/leaves", jwtMiddleware, middleware.RequireRole(models.RoleTrainer))
		deps.LeaveHandler.RegisterTrainer(leaves)
	}

	if deps.MaterialHandler != nil {
		batches := api.Group("/batches", jwtMiddleware, middleware.RequireRole(models.RoleAdmin, models.RoleTrainer))
		deps.MaterialHandler.Register(batches)
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin)
	}
	if deps.RosterHandler != nil {
		deps.RosterHandler.Register(admin)
	}
	if deps.LeaveHandler != nil {
		deps.LeaveHandler.RegisterAdmin(admin)
	}
}
