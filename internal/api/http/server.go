package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/config"
	"github.com/nagardrishti/complaint-service/internal/observability"
	"github.com/nagardrishti/complaint-service/web"
)

// NewApp builds the fiber app with views and global middlewares attached.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		Views:                 web.NewEngine(),
		BodyLimit:             cfg.BodyLimit(),
		ReadTimeout:           cfg.RequestTimeout() + 5*time.Second,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, cfg.RequestTimeout())
	return app
}
