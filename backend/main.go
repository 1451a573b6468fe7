package main

import (
	"log"

	"studyhub/backend/config"
	"studyhub/backend/gamification"
	"studyhub/backend/middleware"
	"studyhub/backend/models"
	"studyhub/backend/routes"
	"studyhub/backend/scheduler"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Seed the achievement catalog once
	if err := gamification.SeedAchievements(db); err != nil {
		log.Fatalf("Error seeding achievements: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	service := gamification.NewService(db, logger)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, service)

	// Start background tasks (reminders and session rescheduling)
	if cfg.EnableScheduler {
		scheduler.Start(db, cfg, logger)
	}

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
