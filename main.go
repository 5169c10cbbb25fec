package main

import (
	"errors"
	"log"
	"os"

	"classpulse_go/config"
	"classpulse_go/database"
	"classpulse_go/database/seeders"
	"classpulse_go/middleware"
	"classpulse_go/routes"
	"classpulse_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	setupLogging(cfg)

	db, rdb := database.Connect(cfg)
	defer database.Close(db)

	seeders.SeedSuperadmin(db)

	// Start activity log retention scheduler
	retention := services.NewLogRetentionService(db, cfg.LogRetentionDays)
	retention.Start()
	defer retention.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(cfg.MaxFileSize),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigin,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// Custom middleware
	app.Use(middleware.RequestLogger())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "ClassPulse API",
			"version": "1.0.0",
		})
	})

	// API routes
	routes.SetupRoutes(app, db, rdb, cfg)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Environment: %s", cfg.AppEnv)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
}

// customErrorHandler converts errors escaping a handler into the same
// {"error": msg} body the handlers produce themselves.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"path":   c.Path(),
		"method": c.Method(),
		"status": code,
	})
	if code >= 500 {
		entry.Error("unhandled request error")
	} else {
		entry.Warn("request error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
