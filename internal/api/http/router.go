package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AdminUsers     *handlers.AdminUsersHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	AuthMiddleware fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware, auth.RequireAuthenticated())
	protected.Get("/me", cfg.Users.Me)

	admin := auth.RequireRole(domain.RoleAdmin)
	users := protected.Group("/users", admin)
	users.Get("/", cfg.AdminUsers.List)
	users.Post("/", cfg.AdminUsers.Create)
	users.Get("/:id", cfg.AdminUsers.Get)
	users.Patch("/:id/role", cfg.AdminUsers.UpdateRole)
	users.Patch("/:id/password", cfg.AdminUsers.ResetPassword)

	tickets := protected.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/me", cfg.Tickets.ListMine)
	tickets.Get("/", admin, cfg.Tickets.ListAll)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Patch("/:id/assign", cfg.Tickets.Assign)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/close", cfg.Tickets.Close)
	tickets.Post("/:id/comments", cfg.Comments.Add)
	tickets.Get("/:id/comments", cfg.Comments.List)
}
