package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/scholarproof/verification-service/internal/config"
	"github.com/scholarproof/verification-service/internal/delivery/httpd"
	"github.com/scholarproof/verification-service/internal/repository"
	"github.com/scholarproof/verification-service/internal/service"
	"github.com/scholarproof/verification-service/internal/service/analyzer"
	"github.com/scholarproof/verification-service/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := integration.NewAMQPPublisher(cfg.RabbitMQ.URL, log)
		if err != nil {
			return nil, err
		}
		publisher = amqpPublisher
	} else {
		log.Info().Msg("No message broker configured, stage events disabled")
		publisher = integration.NewNoopPublisher()
	}

	var storage repository.ObjectStorage
	if cfg.Storage.Endpoint != "" && cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" && cfg.Storage.Bucket != "" {
		minioRepo, err := repository.NewMinIORepository(
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.Bucket,
			cfg.Storage.Region,
			cfg.Storage.UseSSL,
			log,
		)
		if err != nil {
			return nil, err
		}
		storage = minioRepo
	}

	var workflowStore repository.WorkflowStateStore
	if db != nil {
		workflowStore = repository.NewPostgresWorkflowStore(db, log)
	} else {
		log.Info().Msg("No database configured, using in-memory workflow store")
		workflowStore = repository.NewMemoryWorkflowStore()
	}

	classifier := analyzer.NewHeuristicDetector(log)

	eligibilityService := service.NewEligibilityService(log)
	plagiarismService := service.NewPlagiarismService(log)
	trustScoreService := service.NewTrustScoreService(classifier, log)

	archiveService := service.NewArchiveService(
		storage,
		publisher,
		service.ArchiveConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		},
		log,
	)

	workflowService := service.NewWorkflowService(workflowStore, publisher, log)

	handler := httpd.NewHandler(
		eligibilityService,
		plagiarismService,
		trustScoreService,
		archiveService,
		workflowService,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting verification service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down verification service...")

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		return err
	}

	a.logger.Info().Msg("Verification service stopped")
	return nil
}
