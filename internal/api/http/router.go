package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/nagardrishti/complaint-service/internal/api/http/handlers"
	"github.com/nagardrishti/complaint-service/internal/auth"
	"github.com/nagardrishti/complaint-service/web"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Metrics    *handlers.MetricsHandler
	Citizen    *handlers.CitizenHandler
	Detect     *handlers.DetectHandler
	Admin      *handlers.AdminHandler
	AdminGuard *auth.AdminGuard
	UploadDir  string
	UploadURL  string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Show)

	app.Use("/static", filesystem.New(filesystem.Config{Root: web.Static()}))
	if cfg.UploadDir != "" {
		app.Static(cfg.UploadURL, cfg.UploadDir)
	}

	app.Get("/", cfg.Citizen.Home)
	app.Get("/register", cfg.Citizen.RegisterPage)
	app.Post("/register", cfg.Citizen.Register)
	app.Get("/report", cfg.Citizen.ReportPage)
	app.Post("/report", cfg.Citizen.Report)
	app.Post("/detect-category", cfg.Detect.Detect)

	app.Get("/admin/login", cfg.Admin.LoginPage)
	app.Post("/admin/login", cfg.Admin.Login)

	admin := app.Group("/admin", cfg.AdminGuard.Handle)
	admin.Get("/", cfg.Admin.Dashboard)
	admin.Post("/logout", cfg.Admin.Logout)
	admin.Get("/export.xlsx", cfg.Admin.Export)
	admin.Get("/complaints/:id", cfg.Admin.Complaint)
	admin.Post("/complaints/:id/resolve", cfg.Admin.Resolve)
}
