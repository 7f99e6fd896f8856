package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/nagardrishti/complaint-service/internal/api/http"
	"github.com/nagardrishti/complaint-service/internal/api/http/handlers"
	"github.com/nagardrishti/complaint-service/internal/auth"
	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/observability"
	"github.com/nagardrishti/complaint-service/internal/persistence"
	"github.com/nagardrishti/complaint-service/internal/repository"
	"github.com/nagardrishti/complaint-service/internal/service"
	"github.com/nagardrishti/complaint-service/internal/storage"
	"github.com/nagardrishti/complaint-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required to serve")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			return err
		}
	}

	rdb := cacheRedis(ctx, cfg, logger)
	defer rdb.Close()

	images, err := storage.NewImageStore(cfg.Storage.UploadDir, cfg.Storage.PublicURL)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifier := worker.NewNotificationWorker(256, logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), notifier)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	historyRepo := repository.NewComplaintHistoryRepository(pool)

	cls := buildClassifier(cfg.Classifier, rdb, logger)
	reg := buildRegistry(cfg.Registry, logger)

	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		UserRepo:   userRepo,
		Registry:   reg,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		UserRepo:      userRepo,
		ComplaintRepo: complaintRepo,
		HistoryRepo:   historyRepo,
		Images:        images,
		Classifier:    cls,
		Registry:      reg,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:      userRepo,
		ComplaintRepo: complaintRepo,
		HistoryRepo:   historyRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, tokens, logger)

	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger(rdb)),
		Metrics: handlers.NewMetricsHandler(metrics),
		Citizen: handlers.NewCitizenHandler(registrationService, submissionService, logger),
		Detect:  handlers.NewDetectHandler(service.NewDetectionService(images, cls, logger)),
		Admin: handlers.NewAdminHandler(handlers.AdminHandlerConfig{
			Admin:         adminService,
			Auth:          authService,
			AuthEnabled:   cfg.Auth.AdminAuthEnabled(),
			SecureCookies: cfg.App.Env == "production",
			Logger:        logger,
		}),
		AdminGuard: auth.NewAdminGuard(tokens, cfg.Auth.AdminAuthEnabled(), "/admin/login"),
		UploadDir:  images.Dir(),
		UploadURL:  cfg.Storage.PublicURL,
	})

	logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
	return runLifecycle(ctx, lifecycle{
		listen:   func() error { return app.Listen(cfg.App.Addr()) },
		shutdown: func() error { return app.ShutdownWithTimeout(shutdownTimeout) },
		worker:   notifier.Run,
	}, logger)
}

type lifecycle struct {
	listen   func() error
	shutdown func() error
	worker   func(context.Context) error
}

// runLifecycle serves until ctx is done. The worker outlives the HTTP
// shutdown so events published by in-flight requests are still delivered.
func runLifecycle(ctx context.Context, lc lifecycle, logger *zap.Logger) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(lc.listen)
	g.Go(func() error {
		return lc.worker(workerCtx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		err := lc.shutdown()
		stopWorker()
		return err
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
