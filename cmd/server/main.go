package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "loanlens/docs"
	redisCache "loanlens/internal/cache/redis"
	"loanlens/internal/config"
	"loanlens/internal/email/noop"
	"loanlens/internal/email/ses"
	"loanlens/internal/handler"
	"loanlens/internal/logger"
	"loanlens/internal/parser"
	_ "loanlens/internal/parser/claude"
	_ "loanlens/internal/parser/gemini"
	_ "loanlens/internal/parser/openai"
	"loanlens/internal/port"
	"loanlens/internal/repository/postgres"
	"loanlens/internal/router"
	"loanlens/internal/service"
	s3storage "loanlens/internal/storage/s3"
)

// @title LoanLens API
// @version 1.0
// @description Loan document aggregation and underwriting analysis.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	officerRepo := postgres.NewOfficerRepo(db)
	appRepo := postgres.NewApplicationRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	analysisRepo := postgres.NewAnalysisRepo(db)

	// Initialize storage
	storage, err := s3storage.New(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	var cache port.AnalysisCache
	if cfg.Redis.Enabled {
		c := redisCache.NewAnalysisCache(redisCache.NewClient(&cfg.Redis), cfg.Redis.TTL)
		if err := c.Ping(ctx); err != nil {
			zl.Warn("analysis cache unreachable, continuing without it", zap.Error(err))
		} else {
			cache = c
			zl.Info("analysis cache enabled", zap.String("address", cfg.Redis.Address))
		}
	}

	docParser, err := parser.Build(&cfg.Parser, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize document parser: %w", err)
	}

	notifier, err := newNotifier(ctx, &cfg.Email, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(officerRepo, cfg.JWT)
	appSvc := service.NewApplicationService(appRepo, zl)
	docSvc := service.NewDocumentService(appRepo, docRepo, storage, docParser, &cfg.S3, zl)
	analysisSvc := service.NewAnalysisService(service.AnalysisDeps{
		Applications: appRepo,
		Documents:    docRepo,
		Analyses:     analysisRepo,
		Officers:     officerRepo,
		Storage:      storage,
		Cache:        cache,
		Notifier:     notifier,
		ReportBucket: cfg.S3.Bucket,
		FrontendURL:  cfg.Email.FrontendURL,
		Logger:       zl,
	})

	// Initialize handlers
	r := router.Setup(authSvc, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, zl),
		Application: handler.NewApplicationHandler(appSvc, zl),
		Document:    handler.NewDocumentHandler(docSvc, zl),
		Analysis:    handler.NewAnalysisHandler(analysisSvc, zl),
		Health:      handler.NewHealthHandler(db),
	}, cfg.CORS.AllowedOrigins, zl)

	worker := service.NewExtractionQueueWorker(docRepo, docSvc, service.ExtractionQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	}, zl)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workerDone
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	<-workerDone
	return nil
}

func newNotifier(ctx context.Context, cfg *config.EmailConfig, zl *zap.Logger) (port.DecisionNotifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewNotifier(ctx, cfg)
	case "", "noop":
		return noop.NewNotifier(zl), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
