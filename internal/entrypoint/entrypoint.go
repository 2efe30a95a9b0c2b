package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/fastreed/internal/audit"
	"github.com/mrlokans/fastreed/internal/config"
	"github.com/mrlokans/fastreed/internal/database"
	auditRepo "github.com/mrlokans/fastreed/internal/database/audit"
	"github.com/mrlokans/fastreed/internal/document"
	http_controllers "github.com/mrlokans/fastreed/internal/http"
	"github.com/mrlokans/fastreed/internal/logging"
	"github.com/mrlokans/fastreed/internal/scheduler"
	"github.com/mrlokans/fastreed/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewDispatcher builds the extraction dispatcher from configuration and
// fails if any supported format lacks an extractor.
func NewDispatcher(cfg *config.Config, logger *zap.Logger) (*document.Dispatcher, error) {
	if cfg.Upload.TempDir != "" {
		if err := os.MkdirAll(cfg.Upload.TempDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create upload temp dir: %w", err)
		}
	}

	dispatcher := document.NewDispatcher(
		document.WithTempDir(cfg.Upload.TempDir),
		document.WithLogger(logger),
		document.WithExtractor(document.FormatEPUB, &document.EPUBExtractor{
			StripMarkup: cfg.EPUB.StripMarkup,
			SpineOrder:  cfg.EPUB.SpineOrder,
		}),
	)
	if missing := dispatcher.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("no extractor registered for formats %v", missing)
	}
	return dispatcher, nil
}

func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop taking uploads before flushing the background work they produce.
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting FastReed", zap.String("version", version))

	dispatcher, err := NewDispatcher(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize extraction pipeline", zap.Error(err))
	}

	routerCfg := http_controllers.RouterConfig{
		Extractor:        dispatcher,
		MaxFileSize:      cfg.Upload.MaxFileSize,
		DefaultRSVPSpeed: cfg.RSVP.DefaultSpeed,
		CORS:             cfg.CORS,
		Version:          version,
		Logger:           logger,
	}

	var auditService *audit.Service
	var cleanupScheduler *scheduler.CleanupScheduler
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc

	if cfg.Audit.Enabled {
		db, err := database.NewDatabase(cfg.Database.Path, logger)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("error closing database", zap.Error(err))
			}
		}()

		auditService = audit.NewService(auditRepo.NewRepository(db.DB), logger)
		routerCfg.Database = db
		routerCfg.AuditTrail = auditService
		routerCfg.ExposeExtractions = cfg.Audit.ExposeAPI

		// Initialize task queue if enabled
		if cfg.Tasks.Enabled {
			taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
				Workers:         cfg.Tasks.Workers,
				ReleaseAfter:    cfg.Tasks.ReleaseAfter,
				CleanupInterval: cfg.Tasks.CleanupInterval,
			}, logger)
			if err != nil {
				logger.Fatal("failed to initialize task queue", zap.Error(err))
			}
			defer func() {
				if err := taskClient.Close(); err != nil {
					logger.Error("error closing task client", zap.Error(err))
				}
			}()

			taskClient.Register(tasks.NewCleanupEventsQueue(auditService, logger))

			var taskCtx context.Context
			taskCtx, taskCtxCancel = context.WithCancel(context.Background())
			go taskClient.Start(taskCtx)
		}

		cleanupScheduler = scheduler.NewCleanupScheduler(
			cfg.Audit.CleanupSchedule,
			cfg.Audit.RetentionDays,
			taskClient,
			auditService,
			logger,
		)
		if err := cleanupScheduler.Start(); err != nil {
			logger.Fatal("failed to start cleanup scheduler", zap.Error(err))
		}
	} else {
		logger.Info("extraction audit trail disabled")
		if cfg.Audit.ExposeAPI {
			logger.Warn("AUDIT_API_ENABLED has no effect while AUDIT_ENABLED is false")
		}
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if auditService != nil {
			auditService.Wait()
		}
	}

	Serve(router, cfg, logger, onShutdown)
}
