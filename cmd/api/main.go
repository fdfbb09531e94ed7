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

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

// repositories is one storage backend's implementation of every repository.
type repositories struct {
	tx          database.Transactor
	users       user.UserRepository
	attendances attendance.AttendanceRepository
	leaves      leave.LeaveRepository
	tokens      auth.RefreshTokenRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cal, err := calendar.Load(cfg.App.Timezone)
	if err != nil {
		return err
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authService := serviceAuth.NewAuthService(repos.tx, repos.users, repos.tokens, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(repos.tx, cal, time.Now, repos.attendances, repos.users)
	leaveSvc := leaveService.NewLeaveService(repos.tx, cal, repos.leaves, repos.attendances)
	reportSvc := reportService.NewReportService(cal, repos.attendances, repos.users)
	userSvc := userService.NewUserService(repos.users)

	scheduler := cron.NewScheduler(logger)
	cron.NewSessionJobs(logger, repos.tokens, JWTService, time.Now).RegisterJobs(scheduler, cfg.App.SessionSweepInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		logger,
		cfg.App.CORSAllowedOrigins,
		JWTService,
		appHTTP.NewAuthHandler(JWTService, authService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewEmployeeHandler(userSvc),
		appHTTP.NewUserHandler(userSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := sqlite.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		return &repositories{
			tx:          sqlite.NewTransactor(db),
			users:       sqlite.NewUserRepository(db),
			attendances: sqlite.NewAttendanceRepository(db),
			leaves:      sqlite.NewLeaveRepository(db),
			tokens:      sqlite.NewRefreshTokenRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			},
		}, nil

	default:
		dsn := cfg.DatabaseURL()
		if cfg.Database.AutoMigrate {
			migrator, err := database.NewMigrator(dsn, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to prepare migrations: %w", err)
			}
			err = migrator.Up()
			if closeErr := migrator.Close(); closeErr != nil {
				logger.Warn("failed to close migrator", "error", closeErr)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &repositories{
			tx:          postgresql.NewTransactor(db),
			users:       postgresql.NewUserRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			leaves:      postgresql.NewLeaveRepository(db),
			tokens:      postgresql.NewRefreshTokenRepository(db),
			close:       db.Close,
		}, nil
	}
}
