package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanpr/expense-report-portal/internal"
	"github.com/ardanpr/expense-report-portal/internal/admin"
	"github.com/ardanpr/expense-report-portal/internal/auth"
	"github.com/ardanpr/expense-report-portal/internal/core/events"
	"github.com/ardanpr/expense-report-portal/internal/notification"
	"github.com/ardanpr/expense-report-portal/internal/report"
	reportpg "github.com/ardanpr/expense-report-portal/internal/report/postgres"
	"github.com/ardanpr/expense-report-portal/internal/transport/rest"
	"github.com/ardanpr/expense-report-portal/internal/user"
	userpg "github.com/ardanpr/expense-report-portal/internal/user/postgres"
	"github.com/ardanpr/expense-report-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler   *auth.Handler
	ReportHandler *report.Handler
	AdminHandler  *admin.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Config.Server.Origins(),
		deps.AuthHandler, deps.ReportHandler, deps.AdminHandler, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.L()

	db, err := initDB(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := openGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pool: %w", err)
	}

	bus := events.NewEventBus(lg)

	var sender notification.Sender
	if config.SMTP.Configured() {
		sender = notification.NewSMTPMailer(config.SMTP, lg)
	} else {
		sender = notification.NewLogMailer(lg)
	}
	notification.NewSubscriber(sender, lg).Register(bus)

	userService := user.NewService(userpg.NewUserRepository(gormDB), bus, config.Security.BCryptCost, lg)

	reportRepo := reportpg.NewReportRepository(gormDB)
	reportService := report.NewService(reportRepo, userService, lg)
	reportHandler := report.NewHandler(reportService)

	adminService := admin.NewService(reportRepo, lg)
	adminHandler := admin.NewHandler(adminService)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(config.Security.AdminUsername, config.Security.AdminPasswordHash, tokenGen)
	authHandler := auth.NewHandler(authService)

	return &Dependencies{
		Config:        config,
		Logger:        lg,
		DB:            db,
		GormDB:        gormDB,
		Router:        chi.NewRouter(),
		AuthHandler:   authHandler,
		ReportHandler: reportHandler,
		AdminHandler:  adminHandler,
	}, nil
}

// initDB opens the pgx pool and verifies it with a bounded retry loop.
// The backoff doubles after every failed attempt, so transient startup
// races against the database container resolve without operator action.
func initDB(cfg internal.DatabaseConfig, lg *slog.Logger) (*sqlx.DB, error) {
	const driver = "pgx"

	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 5
	}
	backoff := cfg.ConnectBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var dbConn *sqlx.DB
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		dbConn, err = sqlx.Connect(driver, cfg.Source)
		if err == nil {
			break
		}
		if attempt == attempts {
			return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
		}
		lg.Warn("database not ready, retrying",
			"attempt", attempt, "backoff", backoff.String(), "error", err)
		time.Sleep(backoff)
		backoff *= 2
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return dbConn, nil
}

// openGorm wraps the existing pool so repositories and the health check
// share one set of connections. TranslateError maps unique violations to
// gorm.ErrDuplicatedKey, which the report repository relies on.
func openGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
}
