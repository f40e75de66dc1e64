package routers

import (
	"studio/config"
	"studio/middleware"
	"studio/routers/contentRoutes"
	"studio/routers/systemRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the Fiber app with middleware and every route registered
func NewApp() *fiber.App {
	cfg := config.AppConfig

	// The server-wide limit has to admit uploads; LimitBody caps the rest.
	app := fiber.New(fiber.Config{
		AppName:   "studio",
		BodyLimit: (cfg.MaxUploadMB + 1) << 20,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: cfg.CorsOrigins != "*",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Use(middleware.LimitBody(cfg.MaxBodyKB<<10, "/videos/upload"))

	systemRoutes.SetupHealthRoutes(app)
	contentRoutes.SetupChannelRoutes(app)
	contentRoutes.SetupChapterRoutes(app)
	contentRoutes.SetupVideoRoutes(app)

	return app
}
