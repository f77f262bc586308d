package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Issues         *handlers.IssuesHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authed := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authed.Get("/auth/profile", cfg.Auth.Profile)
	authed.Put("/auth/profile", cfg.Auth.UpdateProfile)
	authed.Put("/auth/password", cfg.Auth.ChangePassword)
	authed.Post("/auth/logout", cfg.Auth.Logout)

	// Issue role checks happen in the service.
	issues := authed.Group("/issues")
	issues.Get("/", cfg.Issues.List)
	issues.Post("/", cfg.Issues.Create)
	issues.Get("/stats", cfg.Issues.Stats)
	issues.Get("/:id", cfg.Issues.Get)
	issues.Put("/:id", cfg.Issues.Update)
	issues.Delete("/:id", cfg.Issues.Delete)
	issues.Patch("/:id/status", cfg.Issues.UpdateStatus)
	issues.Patch("/:id/assign", cfg.Issues.Assign)
	issues.Post("/:id/comments", cfg.Issues.AddComment)

	users := authed.Group("/users", auth.RequireAdmin())
	users.Get("/", cfg.Users.List)
	users.Get("/stats", cfg.Users.Stats)
	users.Get("/search-staff", cfg.Users.SearchStaff)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Patch("/:id/toggle-status", cfg.Users.ToggleStatus)
}
