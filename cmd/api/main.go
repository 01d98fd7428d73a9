// @title QuizDeck API
// @version 1.0
// @description This is the API for the QuizDeck application.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizdeck/internal/adapter"
	"quizdeck/internal/blob"
	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/handler"
	"quizdeck/internal/logger"
	"quizdeck/internal/middleware"
	"quizdeck/internal/repository"
	"quizdeck/internal/service"
	"quizdeck/internal/store"

	_ "quizdeck/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to the document store
	ctx := context.Background()
	mongoStore, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		appLogger.Fatal("Failed to connect to the document store", zap.Error(err))
	}
	defer mongoStore.Close(context.Background())
	appLogger.Info("Connected to the document store", zap.String("database", cfg.Mongo.Database))

	// Initialize repositories
	quizRepository := repository.NewQuizRepository(mongoStore)
	userRepository := repository.NewUserRepository(mongoStore)
	resultRepository := repository.NewResultRepository(mongoStore)
	favoriteRepository := repository.NewFavoriteRepository(mongoStore)
	ratingRepository := repository.NewRatingRepository(mongoStore)

	// Initialize Redis. The catalog cache is optional; without it every
	// listing hits the store.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, catalog caching disabled", zap.Error(err))
	} else {
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	}

	// Blob storage is optional; without it photo uploads are rejected.
	blobClient, err := blob.NewClient(ctx, cfg.Blob)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	if blobClient == nil {
		appLogger.Warn("Blob storage not configured, uploads disabled")
	}

	// Initialize services
	statsService := service.NewStatsService(quizRepository, userRepository)
	quizService := service.NewQuizService(quizRepository, statsService, cacheAdapter, cfg.Redis.CatalogTTL)
	resultService := service.NewResultService(resultRepository, quizRepository, statsService)
	favoriteService := service.NewFavoriteService(favoriteRepository, quizRepository)
	ratingService := service.NewRatingService(ratingRepository, quizRepository, statsService)

	var uploader blob.Uploader
	if blobClient != nil {
		uploader = blobClient
	}
	userService := service.NewUserService(userRepository, uploader)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	quizHandler := handler.NewQuizHandler(quizService, userService)
	resultHandler := handler.NewResultHandler(resultService)
	userHandler := handler.NewUserHandler(userService, resultService)
	socialHandler := handler.NewSocialHandler(favoriteService, ratingService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// Quiz catalog routes; anonymous browsing is allowed
	quizGroup := apiGroup.Group("/quizzes")
	quizGroup.Get("/public", quizHandler.Public)
	quizGroup.Get("/search", quizHandler.Search)
	quizGroup.Get("/recommended", quizHandler.Recommended)
	quizGroup.Get("/popular", quizHandler.Popular)
	quizGroup.Get("/category/:category", quizHandler.ByCategory)
	quizGroup.Get("/level/:level", quizHandler.ByLevel)
	quizGroup.Get("/mine", middleware.Protected(authService), quizHandler.Mine)
	quizGroup.Get("/creator/:userId", middleware.OptionalAuth(authService), quizHandler.ByCreator)
	quizGroup.Get("/:id/ratings", socialHandler.QuizRatings)
	quizGroup.Get("/:id", middleware.OptionalAuth(authService), quizHandler.Get)

	// Authoring and taking require authentication
	quizGroup.Post("/", middleware.Protected(authService), quizHandler.Create)
	quizGroup.Patch("/:id", middleware.Protected(authService), quizHandler.Update)
	quizGroup.Delete("/:id", middleware.Protected(authService), quizHandler.Delete)
	quizGroup.Post("/:id/complete", middleware.Protected(authService), resultHandler.Complete)
	quizGroup.Get("/:id/results", middleware.Protected(authService), resultHandler.QuizResults)
	quizGroup.Get("/:id/best-result", middleware.Protected(authService), resultHandler.BestResult)
	quizGroup.Put("/:id/favorite", middleware.Protected(authService), socialHandler.AddFavorite)
	quizGroup.Delete("/:id/favorite", middleware.Protected(authService), socialHandler.RemoveFavorite)
	quizGroup.Get("/:id/favorite", middleware.Protected(authService), socialHandler.FavoriteStatus)
	quizGroup.Put("/:id/rate", middleware.Protected(authService), socialHandler.Rate)
	quizGroup.Get("/:id/rating", middleware.Protected(authService), socialHandler.MyRating)

	// User routes (all protected)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.Me)
	userGroup.Patch("/me", userHandler.UpdateMe)
	userGroup.Get("/me/results", userHandler.MyResults)
	userGroup.Get("/me/favorites", socialHandler.MyFavorites)
	userGroup.Post("/me/photo", userHandler.UploadPhoto)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
