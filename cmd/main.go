package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-nexus/internal/config"
	"library-nexus/internal/infrastructure/database/postgres"
	"library-nexus/internal/logger"
	"library-nexus/internal/routes"
	"library-nexus/pkg/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	vault, err := storage.NewVault(cfg.Library.VaultDir)
	if err != nil {
		logger.Fatal("Failed to initialize file vault",
			zap.String("dir", cfg.Library.VaultDir),
			zap.Error(err))
	}

	router, services := routes.SetupRoutes(cfg, db, vault)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	if cfg.Library.AdminPassword != "" {
		if err := services.User.EnsureDefaultAdmin(startupCtx, cfg.Library.AdminUsername, cfg.Library.AdminPassword); err != nil {
			logger.Fatal("Failed to ensure default admin account", zap.Error(err))
		}
	} else {
		logger.Info("ADMIN_PASSWORD not set, skipping default admin bootstrap")
	}

	// Loans that went past due while the server was down get flagged now
	// rather than waiting for the first dashboard request.
	if changed, err := services.Circulation.SweepOverdue(startupCtx); err != nil {
		logger.Error("Failed to update overdue loans on startup", zap.Error(err))
	} else if changed > 0 {
		logger.Info("Flagged overdue loans on startup", zap.Int64("count", changed))
	}

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
