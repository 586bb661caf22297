package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/command-center/internal/api/http/handlers"
	"github.com/spec-kit/command-center/internal/auth"
	"github.com/spec-kit/command-center/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Issues         *handlers.IssuesHandler
	Comments       *handlers.CommentsHandler
	Attachments    *handlers.AttachmentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	requireElevated := auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle)
	issues.Get("/", cfg.Issues.List)
	issues.Post("/", cfg.Issues.Create)
	issues.Post("/bulk", requireElevated, cfg.Issues.BulkUpdate)
	issues.Get("/:id", cfg.Issues.Get)
	issues.Patch("/:id", cfg.Issues.Update)
	issues.Delete("/:id", requireElevated, cfg.Issues.Delete)
	issues.Post("/:id/status", cfg.Issues.UpdateStatus)
	issues.Post("/:id/assign", requireElevated, cfg.Issues.Assign)
	issues.Post("/:id/unassign", requireElevated, cfg.Issues.Unassign)
	issues.Get("/:id/status-history", cfg.Issues.StatusHistory)

	comments := app.Group("/comments", cfg.AuthMiddleware.Handle)
	comments.Get("/issue/:issueId", cfg.Comments.ListByIssue)
	comments.Post("/issue/:issueId", cfg.Comments.Create)
	comments.Patch("/:id", cfg.Comments.Update)
	comments.Delete("/:id", cfg.Comments.Delete)

	attachments := app.Group("/attachments", cfg.AuthMiddleware.Handle)
	attachments.Post("/issue/:issueId", cfg.Attachments.Upload)
	attachments.Get("/issue/:issueId", cfg.Attachments.ListByIssue)
	attachments.Delete("/:id", requireElevated, cfg.Attachments.Delete)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", requireElevated, cfg.Users.List)
	users.Get("/engineers", cfg.Users.ListEngineers)
}
