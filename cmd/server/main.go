package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfoliostudio/docs"
	"portfoliostudio/internal/auth"
	"portfoliostudio/internal/cache"
	"portfoliostudio/internal/config"
	"portfoliostudio/internal/db"
	"portfoliostudio/internal/handler"
	"portfoliostudio/internal/logger"
	"portfoliostudio/internal/mail"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/payment"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/router"
	"portfoliostudio/internal/service"
)

// @title Portfolio Studio API
// @version 1.0
// @description Multi-tenant portfolio builder: studio accounts, sites, content, billing and the global control panel.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProduction() && cfg.JWTSecret == "replace-with-strong-secret" {
		zl.Fatal("JWT_SECRET must be set in production")
	}

	gormDB, err := db.Open(cfg, zl)
	if err != nil {
		zl.Fatal("database init", zap.Error(err))
	}

	if os.Getenv("RESET_DB") == "true" {
		zl.Warn("RESET_DB=true detected, dropping all tables")
		resetTables(gormDB, zl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx, gormDB, zl); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(ctx); err != nil {
		zl.Warn("redis unavailable, cache disabled and logout revocation will not persist", zap.Error(err))
	}

	m := metrics.New(cfg.MetricsNamespace)
	store := repository.NewStore(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	tokenStore := auth.NewTokenStore(cacheClient)

	khalti := payment.NewKhaltiClient(cfg.KhaltiBaseURL, cfg.KhaltiSecretKey, cfg.ProviderTimeout, zl)
	mailer := mail.NewResendMailer(mail.ResendConfig{
		APIKey:     cfg.ResendAPIKey,
		From:       cfg.MailFrom,
		Timeout:    cfg.ProviderTimeout,
		Production: cfg.IsProduction(),
	}, zl)

	// Initialize services
	accessService := service.NewAccessService(store)
	seeder := service.NewTenantSeeder(store, zl)
	contentService := service.NewContentService(store, seeder, cacheClient, zl)
	billingService := service.NewBillingService(store, khalti, service.BillingConfig{
		AppBaseURL:    cfg.AppBaseURL,
		FallbackPhone: cfg.KhaltiFallbackPhone,
		PlusAmountNPR: cfg.PlusAmountNPR,
		ProAmountNPR:  cfg.ProAmountNPR,
	}, m, zl)
	siteService := service.NewSiteService(store, accessService, seeder, contentService, m, zl)
	accountService := service.NewAccountService(store, siteService, billingService, mailer, jwtService, tokenStore, cfg.AppBaseURL, m, zl)
	adminService := service.NewAdminService(store, jwtService, tokenStore, m, zl)
	messageService := service.NewMessageService(store, zl)

	if err := adminService.Bootstrap(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zl.Fatal("bootstrap admin", zap.Error(err))
	}

	e := echo.New()
	router.Register(e, cfg, zl, m, jwtService, tokenStore, router.Handlers{
		Public:   handler.NewPublicHandler(contentService, siteService, messageService),
		Auth:     handler.NewAuthHandler(accountService),
		Sites:    handler.NewSiteHandler(siteService, accessService),
		Content:  handler.NewContentHandler(contentService),
		Messages: handler.NewMessageHandler(messageService),
		Billing:  handler.NewBillingHandler(billingService),
		Admin:    handler.NewAdminHandler(adminService),
	})

	docs.SwaggerInfo.Host = swaggerHost(cfg.SwaggerHost)
	zl.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))

	addr := ":" + cfg.ServerPort
	go func() {
		zl.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	zl.Info("server stopped")
}

// resetTables drops every managed table, dependents first.
func resetTables(gormDB *gorm.DB, zl *zap.Logger) {
	models := db.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(models[i]); err != nil {
			zl.Warn("drop table", zap.Error(err))
		}
	}
}

func swaggerHost(host string) string {
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimPrefix(host, "https://")
}

func swaggerURL(cfg *config.Config) string {
	switch {
	case cfg.SwaggerHost == "":
		return "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	case strings.HasPrefix(cfg.SwaggerHost, "http://"), strings.HasPrefix(cfg.SwaggerHost, "https://"):
		return cfg.SwaggerHost + "/swagger/index.html"
	default:
		return "http://" + cfg.SwaggerHost + "/swagger/index.html"
	}
}
