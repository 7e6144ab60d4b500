package main

import (
	"log"
	"os"

	"project/backend/config"
	"project/backend/metrics"
	"project/backend/middleware"
	"project/backend/routes"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := utils.InitLogger(cfg)

	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error initializing database")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("Error creating upload directory")
	}

	app := fiber.New(fiber.Config{
		AppName: "learning-platform",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(metrics.Middleware())

	routes.SetupRoutes(app, db, cfg)

	logger.Info().Str("port", cfg.ServerPort).Msg("starting server")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
