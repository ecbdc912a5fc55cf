// @title SurveyForge Backend API
// @version 1.0
// @description Survey authoring, survey taking and response analytics
// @termsOfService http://swagger.io/terms/

// @contact.name SurveyForge Support
// @contact.email support@surveyforge.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// Package main is the entry point for the SurveyForge Backend API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/surveyforge/surveyforge_backend/internal/auth"
	"github.com/surveyforge/surveyforge_backend/internal/config"
	"github.com/surveyforge/surveyforge_backend/internal/database"
	"github.com/surveyforge/surveyforge_backend/internal/handlers"
	"github.com/surveyforge/surveyforge_backend/internal/middleware"
	"github.com/surveyforge/surveyforge_backend/internal/progress"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
	"github.com/surveyforge/surveyforge_backend/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/surveyforge/surveyforge_backend/docs"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// progressBackend is the configured saved-progress store plus what the
// server needs to health-check and release it
type progressBackend struct {
	store progress.Store
	check handlers.Pinger
	close func() error
}

// newProgressBackend builds the saved-progress store selected by cfg.ProgressBackend
// #INTEGRATION_POINT: mongo reuses the primary database, redis needs its own connection
func newProgressBackend(ctx context.Context, cfg *config.Config, dbClient *database.Client) (*progressBackend, error) {
	switch cfg.ProgressBackend {
	case config.ProgressBackendRedis:
		client, err := progress.NewRedisClient(ctx, progress.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		store := progress.NewRedisStore(client, cfg.ProgressTTL)
		return &progressBackend{store: store, check: store, close: client.Close}, nil

	case config.ProgressBackendMemory:
		log.Println("Using in-memory progress store; saved progress is lost on restart")
		return &progressBackend{store: progress.NewMemoryStore()}, nil

	case config.ProgressBackendMongo:
		store := progress.NewMongoStore(dbClient.Collection(database.CollectionSessionProgress), cfg.ProgressTTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: Failed to create progress indexes: %v", err)
		}
		return &progressBackend{store: store}, nil
	}
	return nil, fmt.Errorf("unknown progress backend %q", cfg.ProgressBackend)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.Config{
		URI:                    cfg.DatabaseURI,
		Database:               cfg.DatabaseName,
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize JWT service and progress backend early (before defer) to avoid exitAfterDefer issue
	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		PrivateKeyPath:    cfg.JWTPrivateKeyPath,
		PublicKeyPath:     cfg.JWTPublicKeyPath,
		AccessTokenExpiry: cfg.AccessTokenExpiry,
		Issuer:            "surveyforge-backend",
	})
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	backend, err := newProgressBackend(ctx, cfg, dbClient)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize progress store: %v", err)
	}

	defer func() {
		if backend.close != nil {
			if closeErr := backend.close(); closeErr != nil {
				log.Printf("Error closing progress store: %v", closeErr)
			}
		}
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
	}()

	// Ensure indexes
	log.Println("Creating database indexes...")
	if indexErr := dbClient.EnsureIndexes(ctx); indexErr != nil {
		log.Printf("Warning: Failed to create indexes: %v", indexErr)
	}

	// Initialize repositories
	surveyRepo := repository.NewSurveyRepository(dbClient)
	questionRepo := repository.NewQuestionRepository(dbClient)
	responseRepo := repository.NewResponseRepository(dbClient)
	answerRepo := repository.NewAnswerRepository(dbClient)

	// Responses and their answers are written in one transaction when the deployment supports it
	var transactor services.Transactor
	if cfg.DatabaseTransactions {
		transactor = dbClient
	} else {
		log.Println("Database transactions disabled; responses and answers are written separately")
	}

	// Initialize services
	surveyService := services.NewSurveyService(surveyRepo, questionRepo, responseRepo, answerRepo)
	persistence := services.NewSessionPersistence(
		surveyRepo,
		questionRepo,
		responseRepo,
		answerRepo,
		transactor,
		services.NewHTTPWebhookNotifier(cfg.WebhookTimeout),
	)
	takeService := services.NewTakeService(persistence, backend.store, services.TakeConfig{
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	analyticsService := services.NewAnalyticsService(surveyService, questionRepo, responseRepo, answerRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(Version, takeService).AddCheck("mongodb", handlers.PingFunc(dbClient.HealthCheck))
	if backend.check != nil {
		healthHandler.AddCheck("redis", backend.check)
	}
	surveyHandler := handlers.NewSurveyHandler(surveyService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	takeHandler := handlers.NewTakeHandler(takeService)

	// Respondent endpoints are unauthenticated, so they are rate limited per client IP
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Schedule background jobs
	scheduler := cron.New()
	if err := services.ScheduleIdleSweep(scheduler, cfg.SessionSweepCron, takeService); err != nil {
		log.Printf("Failed to schedule session sweep: %v", err)
		return
	}
	if _, err := scheduler.AddFunc("@every 5m", func() {
		if removed := rateLimiter.Cleanup(10 * time.Minute); removed > 0 {
			log.Printf("[API] Released %d idle rate limiters, %d remain", removed, rateLimiter.Len())
		}
	}); err != nil {
		log.Printf("Failed to schedule rate limiter cleanup: %v", err)
		return
	}
	scheduler.Start()

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create API v1 group
	apiV1 := router.Group("/api/v1")

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Register routes
	surveyHandler.RegisterRoutes(apiV1, authMiddleware)
	analyticsHandler.RegisterRoutes(apiV1, authMiddleware)
	takeHandler.RegisterRoutes(apiV1, rateLimiter.RateLimit(), middleware.OptionalAuthMiddleware(jwtService))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting SurveyForge Backend API server v%s on port %s", Version, cfg.ServerPort)
		log.Printf("Build: %s | Commit: %s | Branch: %s", BuildTime, GitCommit, GitBranch)
		log.Printf("Environment: %s | Progress store: %s", cfg.Environment, cfg.ProgressBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop scheduling new jobs and wait for running ones
	<-scheduler.Stop().Done()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
