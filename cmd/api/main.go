package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cerroazul/gestao-obras/config"
	"github.com/cerroazul/gestao-obras/internal/api/http/middleware"
	"github.com/cerroazul/gestao-obras/internal/attachments"
	authrepo "github.com/cerroazul/gestao-obras/internal/auth/repository"
	authservice "github.com/cerroazul/gestao-obras/internal/auth/service"
	"github.com/cerroazul/gestao-obras/internal/bootstrap"
	"github.com/cerroazul/gestao-obras/internal/logging"
	"github.com/cerroazul/gestao-obras/internal/projects/repository"
	"github.com/cerroazul/gestao-obras/internal/projects/service"
	syncjob "github.com/cerroazul/gestao-obras/internal/projects/sync"
	"github.com/cerroazul/gestao-obras/internal/report"
	"github.com/cerroazul/gestao-obras/internal/storage/postgres"
)

const serviceName = "gestao-obras"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store := repository.NewPostgresStore(db, cfg.Database.StoreTimeout)
	projects := service.NewProjectService(
		repository.NewProjectRepository(store, logger.Named("projects")),
		logger.Named("projects"),
	)
	// an empty cache is a valid start; the failure is already logged
	_ = projects.Refresh(ctx)

	var sessions authrepo.SessionStore = authrepo.NewMemorySessionRepository()
	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		sessions = authrepo.NewRedisSessionRepository(rdb, cfg.Redis.SessionTTL)
		logger.Info("sessions stored in redis", zap.String("addr", cfg.Redis.Addr))
	}
	authSvc := authservice.NewAuthService(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.UserID, sessions)

	printer := report.NewRodPrinter(cfg.Report.ChromeBin, cfg.Report.ChromeControlURL, logger.Named("report"))
	defer func() { _ = printer.Close() }()

	var uploader *attachments.Uploader
	if cfg.Storage.S3Bucket != "" {
		objects, err := attachments.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		uploader = attachments.NewUploader(objects, cfg.Storage.MaxUploadBytes)
	}

	scheduler := syncjob.NewScheduler(projects, cfg.Database.StoreTimeout, logger.Named("sync"))
	if err := scheduler.Start(cfg.Sync.RefreshSchedule); err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimiter: middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		Logger:      logger,
		DB:          pool,
		Sessions:    sessions,
		Auth:        authSvc,
		Projects:    projects,
		Printer:     printer,
		Uploader:    uploader,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
