package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/database"
	"bookhub/internal/config"
	"bookhub/internal/microservices/http-api/handler"
	"bookhub/internal/microservices/http-api/middleware"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"
	"bookhub/internal/recommender"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("config_load_failed", "error", err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config_invalid", "error", err.Error())
		os.Exit(1)
	}

	// Setup structured logging
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.LogFormat == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api_server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Repositories
	bookRepo := repository.NewBookRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	relationRepo := repository.NewRelationRepo(db)
	prefRepo := repository.NewPreferenceRepo(db)
	libraryRepo := repository.NewLibraryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	drafts := repository.NewSurveyDraftRedis(rdb, cfg.SurveyDraftTTL)

	// Services
	engine := recommender.NewEngine(bookRepo, prefRepo, relationRepo, logger)
	recService := service.NewRecommendationService(engine, cfg.MaxRecommendationLimit)
	surveyService := service.NewSurveyService(drafts, prefRepo, recService, logger)
	suggestionService := service.NewSuggestionService(bookRepo, authorRepo, prefRepo, drafts)
	bookService := service.NewBookService(bookRepo)
	libraryService := service.NewLibraryService(libraryRepo, bookRepo)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, logger)
	submissionService := service.NewSubmissionService(submissionRepo, logger)
	quoteService := service.NewQuoteService(quoteRepo, bookRepo, logger)
	collectionService := service.NewCollectionService(collectionRepo, logger)

	// Handlers
	recHandler := handler.NewRecommendationHandler(recService, logger)
	surveyHandler := handler.NewSurveyHandler(surveyService, suggestionService, logger)
	bookHandler := handler.NewBookHandler(bookService)
	genreHandler := handler.NewGenreHandler()
	libraryHandler := handler.NewLibraryHandler(libraryService)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	quoteHandler := handler.NewQuoteHandler(quoteService, logger)
	collectionHandler := handler.NewCollectionHandler(collectionService, logger)
	refreshLimiter := middleware.NewUserRateLimiter(cfg.RefreshRatePerMinute, cfg.RefreshBurst)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go refreshLimiter.Run(sweepCtx, time.Minute, 10*time.Minute)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", handler.Health(map[string]handler.Pinger{
		"postgres": database.Ping(db),
		"redis":    database.RedisPing(rdb),
	}))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	recHandler.RegisterRoutes(api, refreshLimiter.Middleware())
	surveyHandler.RegisterRoutes(api)
	bookHandler.RegisterRoutes(api)
	genreHandler.RegisterRoutes(api)
	libraryHandler.RegisterRoutes(api)
	reviewHandler.RegisterRoutes(api)
	submissionHandler.RegisterRoutes(api)
	quoteHandler.RegisterRoutes(api)
	collectionHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           middleware.CORS(cfg.CORSOrigins)(r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("api_server_started", "addr", srv.Addr, "tls", cfg.TLSEnabled)
		var err error
		if cfg.TLSEnabled {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Info("shutdown_signal_received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("api_server_stopped")
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
