package router

import (
	"errors"

	"om-api/internal/delivery/http/dto"
	"om-api/internal/delivery/http/handler"
	"om-api/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/phuslu/log"
)

type Options struct {
	BodyLimit        int
	CORSAllowOrigins string
}

// New builds the Fiber app with middleware and every API route.
func New(opts Options, docHandler *handler.DocumentHandler, healthHandler *handler.HealthHandler, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "om-api",
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	// document routes
	api.Post("/documents", docHandler.Upload)
	api.Get("/documents", docHandler.List)
	api.Get("/documents/:id", docHandler.GetByID)
	api.Get("/documents/:id/file", docHandler.File)
	api.Post("/documents/:id/query", docHandler.Query)

	return app
}
