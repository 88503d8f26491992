package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/volunteerhub/volunteer-hub-api/internal/config"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/handlers"
	"github.com/volunteerhub/volunteer-hub-api/internal/middleware"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	appRepo := repository.NewApplicationRepository(db)

	revalidator := services.LogRevalidator{}
	authService := services.NewAuthService(userRepo, revalidator)
	taskService := services.NewTaskService(taskRepo, userRepo, revalidator)
	appService := services.NewApplicationService(appRepo, taskRepo, userRepo, revalidator)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, authService)
	appHandler := handlers.NewApplicationHandler(appService, authService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Volunteer Hub API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Task routes (catalog reads are public, mutations require a session)
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.POST("", middleware.RequireAuth(), taskHandler.CreateTask)
			tasks.PUT("/:id", middleware.RequireAuth(), taskHandler.UpdateTask)
			tasks.GET("/mine", middleware.RequireAuth(), taskHandler.ListMyTasks)
		}

		// Application workflow routes (protected)
		apps := api.Group("/applications")
		apps.Use(middleware.RequireAuth())
		{
			apps.POST("", appHandler.Submit)
			apps.GET("/mine", appHandler.ListMine)
			apps.GET("/review", appHandler.ListReviewQueue)
			apps.GET("/:id", appHandler.GetApplication)
			apps.POST("/:id/verdict", appHandler.Verdict)
			apps.POST("/:id/withdraw", appHandler.Withdraw)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
