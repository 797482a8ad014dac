// @title           StudKits Backend API
// @version         1.0.0
// @description     Backend API for the StudKits site. Serves the kit catalog, takes custom project/presentation requests and contact messages, and runs the admin workflow: approving/declining requests and tracking project fulfillment stages with live updates.

// @contact.name   StudKits Support
// @contact.email  support@studkits.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"
	"net/url"

	"studkits-backend/docs"
	"studkits-backend/internal/catalog"
	"studkits-backend/internal/config"
	"studkits-backend/internal/database"
	"studkits-backend/internal/handlers"
	"studkits-backend/internal/mailer"
	"studkits-backend/internal/middleware"
	"studkits-backend/internal/supabase"
	"studkits-backend/internal/watch"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Kit catalog ships inside the binary
	kitCatalog, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load kit catalog: %v", err)
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	// Create database client for direct queries
	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your Supabase PostgreSQL connection string")
	}

	var dbClient *supabase.DatabaseClient
	if dbURL != "" {
		var err error
		dbClient, err = supabase.NewDatabaseClient(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Database operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}

			// Admin provisioning: promote the configured account's stored role.
			if cfg.AdminEmail != "" {
				promoted, err := dbClient.PromoteAdmin(cfg.AdminEmail)
				switch {
				case err != nil:
					log.Printf("Warning: Failed to promote admin: %v", err)
				case !promoted:
					log.Printf("Warning: Admin account %s has no profile yet; it will need promotion after first sign-in", cfg.AdminEmail)
				}
			}
		}
	}

	// Outbound email (optional; notices are skipped with a warning when absent)
	mailClient, err := mailer.NewClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to initialize mail client: %v", err)
	}
	if mailClient == nil {
		log.Println("Warning: EMAIL_HOST not set. Outbound notifications are disabled.")
	}

	// Live tracking updates
	hub := watch.NewHub()

	// Initialize handlers (dbClient might be nil, handlers handle this)
	kitsHandler := handlers.NewKitsHandler(kitCatalog)
	contactHandler := handlers.NewContactHandler(cfg, mailClient)
	requestsHandler := handlers.NewRequestsHandler(cfg, dbClient, mailClient)
	trackingHandler := handlers.NewTrackingHandler(dbClient, storageClient, hub)
	profileHandler := handlers.NewProfileHandler(dbClient, supabaseClient)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public routes
	public := router.Group("/api/v1")
	public.GET("/kits", kitsHandler.ListKits)
	public.GET("/kits/categories", kitsHandler.ListCategories)
	public.GET("/kits/:kit_id", kitsHandler.GetKit)
	public.POST("/contact", contactHandler.SubmitContact)
	public.POST("/requests", requestsHandler.SubmitRequest)

	// Authenticated routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.GET("/projects", trackingHandler.ListProjects)
	api.GET("/projects/:project_id", trackingHandler.GetProject)
	api.GET("/projects/:project_id/events", trackingHandler.Events)
	api.GET("/profile", profileHandler.GetProfile)
	api.PUT("/profile", profileHandler.UpdateProfile)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(dbClient))

	admin.GET("/projects", trackingHandler.ListAllProjects)
	admin.PUT("/projects/:project_id/stage", trackingHandler.AdvanceStage)
	admin.PUT("/projects/:project_id/stages/:stage_key/notes", trackingHandler.UpdateStageNotes)
	admin.POST("/projects/:project_id/stages/:stage_key/image", trackingHandler.UploadStageImage)
	admin.DELETE("/projects/:project_id", trackingHandler.DeleteProject)

	admin.GET("/requests", requestsHandler.ListRequests)
	admin.POST("/requests/:request_id/approve", requestsHandler.ApproveRequest)
	admin.POST("/requests/:request_id/decline", requestsHandler.DeclineRequest)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
