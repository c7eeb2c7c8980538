// main.go - MFL Scoring & Leaderboard Engine
package main

import (
	"log"
	"os"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/database"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/handlers"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire services onto the shared connection
	handlers.InitHandlers()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// League routes (require authentication)
	leagueGroup := api.Group("/leagues")
	leagueGroup.Use(middleware.AuthMiddleware)
	leagueGroup.Post("/", handlers.CreateLeague)
	leagueGroup.Post("/join", handlers.JoinLeague)
	leagueGroup.Post("/:id/teams", handlers.CreateTeam)

	// Daily entry routes
	leagueGroup.Post("/:id/entries", handlers.SubmitEntry)
	leagueGroup.Get("/:id/entries", handlers.GetMyEntries)
	leagueGroup.Post("/:id/entries/preview", handlers.PreviewScore)

	// Challenge routes
	leagueGroup.Get("/:id/challenges", handlers.GetLeagueChallenges)
	leagueGroup.Post("/:id/challenges", handlers.CreateChallenge)

	// Leaderboard and member stats
	leagueGroup.Get("/:id/leaderboard", handlers.GetLeaderboard)
	leagueGroup.Get("/:id/members/:memberId/stats", handlers.GetMemberStats)

	// Rest day routes
	leagueGroup.Get("/:id/members/:memberId/rest-days", handlers.GetRestDayStatus)
	leagueGroup.Post("/:id/rest-day-donations", handlers.RequestRestDayDonation)

	// Member routes
	memberGroup := api.Group("/members")
	memberGroup.Use(middleware.AuthMiddleware)
	memberGroup.Put("/:id/team", handlers.AssignMemberTeam)

	// Challenge submission routes
	challengeGroup := api.Group("/challenges")
	challengeGroup.Use(middleware.AuthMiddleware)
	challengeGroup.Post("/:id/submissions", handlers.SubmitChallengeProof)
	challengeGroup.Post("/:id/sub-teams", handlers.AssignSubTeam)

	// Review routes (admin only)
	reviewGroup := api.Group("")
	reviewGroup.Use(middleware.AdminAuthMiddleware)
	reviewGroup.Put("/entries/:id/review", handlers.ReviewEntry)
	reviewGroup.Put("/challenges/:id/submissions/:memberId/review", handlers.ReviewChallengeSubmission)
	reviewGroup.Put("/rest-day-donations/:id/review", handlers.ReviewRestDayDonation)

	// Live leaderboard websocket (client pulls with "refresh")
	app.Get("/ws/leaderboard/:leagueId", handlers.LiveLeaderboardUpgrade, handlers.LiveLeaderboard)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "2.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🏆 Leaderboard available at /api/leagues/:id/leaderboard")
	log.Printf("🌐 Live leaderboard at ws://localhost:%s/ws/leaderboard/:leagueId", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
