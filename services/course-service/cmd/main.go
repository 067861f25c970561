package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authMiddleware "github.com/courseforge/backend/libs/auth/middleware"
	authService "github.com/courseforge/backend/libs/auth/service"
	"github.com/courseforge/backend/libs/config"
	baseHandlers "github.com/courseforge/backend/libs/handlers"
	"github.com/courseforge/backend/libs/logger"
	loggerMiddleware "github.com/courseforge/backend/libs/logger/middleware"
	sharedMiddleware "github.com/courseforge/backend/libs/middlewares"
	_ "github.com/courseforge/backend/services/course-service/docs"
	"github.com/courseforge/backend/services/course-service/internal/clients"
	"github.com/courseforge/backend/services/course-service/internal/handlers"
	"github.com/courseforge/backend/services/course-service/internal/repositories"
	"github.com/courseforge/backend/services/course-service/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const maxRequestSize = 1 * 1024 * 1024 // 1MB, course documents are plain JSON

// courseStore bundles the repositories of the selected store driver
type courseStore struct {
	courses services.CourseRepository
	users   services.UserRepository
	close   func()
}

// @title CourseForge Course API
// @version 1.0
// @description API for generating, editing and publishing courses
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Optional session token in the form "Bearer <token>"
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting CourseForge Course Service", zap.String("store", cfg.StoreDriver))

	// Connect to the configured store
	var store *courseStore
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		store, err = openMongoStore(cfg)
	default:
		store, err = openMySQLStore(cfg)
	}
	if err != nil {
		logger.Logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.close()

	// Initialize external clients
	geminiClient := clients.NewGeminiClient(
		cfg.Gemini.BaseURL,
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.Timeout,
		logger.Logger,
	)

	youtubeClient, err := clients.NewYouTubeClient(context.Background(), cfg.YouTube.APIKey)
	if err != nil {
		logger.Logger.Fatal("Failed to create YouTube client", zap.Error(err))
	}

	// Initialize services
	courseService := services.NewCourseService(store.courses, logger.Logger)
	generationService := services.NewCourseGenerationService(store.courses, geminiClient, logger.Logger)
	contentService := services.NewChapterContentService(store.courses, geminiClient, logger.Logger)
	videoService := services.NewVideoEnrichmentService(store.courses, youtubeClient, logger.Logger)
	publicationService := services.NewPublicationService(store.courses, logger.Logger)
	userService := services.NewUserService(store.users)

	// Initialize handlers
	generationHandler := handlers.NewGenerationHandler(generationService, contentService, videoService, publicationService, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger.Logger)
	userHandler := handlers.NewUserHandler(userService, logger.Logger)
	healthHandler := handlers.NewHealthHandler(courseService, logger.Logger)
	baseHandler := &baseHandlers.BaseHandler{Logger: logger.Logger}

	// Setup router
	r := chi.NewRouter()
	r.MethodNotAllowed(baseHandler.MethodNotAllowed)
	r.NotFound(baseHandler.NotFound)

	// Apply middleware
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(maxRequestSize))

	// Session tokens are only checked when a secret is configured
	if cfg.JWT.Secret != "" {
		tokenValidator := authService.NewTokenValidator(cfg.JWT.Secret)
		r.Use(authMiddleware.SessionMiddleware(tokenValidator))
	}

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		r.MethodNotAllowed(baseHandler.MethodNotAllowed)
		r.NotFound(baseHandler.NotFound)

		healthHandler.RegisterRoutes(r)
		generationHandler.RegisterRoutes(r)
		courseHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second, // generation waits on the text API
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// openMySQLStore connects to MySQL, applies migrations and builds the SQL repositories
func openMySQLStore(cfg *config.Config) (*courseStore, error) {
	db, err := connectDB(cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &courseStore{
		courses: repositories.NewCourseRepository(db),
		users:   repositories.NewUserRepository(db),
		close:   func() { db.Close() },
	}, nil
}

// openMongoStore connects to MongoDB, creates indexes and builds the document repositories
func openMongoStore(cfg *config.Config) (*courseStore, error) {
	client, err := connectMongo(cfg.Mongo.URI)
	if err != nil {
		return nil, err
	}

	db := client.Database(cfg.Mongo.Database)
	courseRepo := repositories.NewMongoCourseRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := courseRepo.EnsureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return &courseStore{
		courses: courseRepo,
		users:   repositories.NewMongoUserRepository(db),
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
			}
		},
	}, nil
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// connectMongo connects to MongoDB and verifies the connection
func connectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	// Use service-specific migration table name to avoid conflicts with other services
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "course_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
