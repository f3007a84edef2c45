package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"portfoliostudio/internal/auth"
	"portfoliostudio/internal/config"
	"portfoliostudio/internal/db"
	"portfoliostudio/internal/logger"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/service"
)

// seed prepares a fresh database: schema, the admin account and the global
// portfolio content. It is safe to run repeatedly.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl.Info("starting seed", zap.String("driver", cfg.DBDriver))

	gormDB, err := db.Open(cfg, zl)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, gormDB, zl); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}
	zl.Info("database migrations completed")

	store := repository.NewStore(gormDB)
	admin := service.NewAdminService(store, auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn), nil, metrics.New(cfg.MetricsNamespace), zl)
	if err := admin.Bootstrap(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zl.Fatal("bootstrap", zap.Error(err))
	}

	dashboard, err := admin.Dashboard(ctx)
	if err != nil {
		zl.Fatal("read dashboard", zap.Error(err))
	}
	zl.Info("seed completed",
		zap.String("admin_email", cfg.AdminEmail),
		zap.Int64("projects", dashboard.ProjectCount),
		zap.Int64("unread_messages", dashboard.UnreadMessages),
	)
}
