package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/routes"
	"doorpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const (
	qrCacheSize     = 512
	qrCacheTTL      = 30 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	config.App = cfg

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ConnectDB(cfg); err != nil {
		return err
	}
	if err := config.DB.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := seedAdmin(config.DB, cfg); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedReminderTemplates(config.DB); err != nil {
		return fmt.Errorf("seed reminder templates: %w", err)
	}

	tokens, err := newTokenStore(ctx, cfg)
	if err != nil {
		return err
	}

	hub := services.NewHub()
	go hub.Run(ctx)

	notifier := services.NewNotificationService(config.DB, hub)
	invoices := services.NewInvoiceService(cfg, services.NewQRRenderer(services.DefaultQRSize, qrCacheSize, qrCacheTTL))

	var sender services.SMSSender
	if cfg.TwilioEnabled() {
		sender = services.NewTwilioSender(cfg)
	} else {
		logger.Warn("Twilio not configured, reminders will be logged as skipped")
	}
	reminders := services.NewReminderService(config.DB, sender, notifier, cfg.ReminderCron)
	if err := reminders.StartScheduler(); err != nil {
		return fmt.Errorf("reminder scheduler: %w", err)
	}
	defer reminders.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(cfg, routes.Deps{
		Logger:    logger,
		Tokens:    tokens,
		Accounts:  services.NewAccountStore(config.DB),
		Hub:       hub,
		Notifier:  notifier,
		Invoices:  invoices,
		Reminders: reminders,
	})
	printRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr), slog.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newTokenStore uses Redis when configured so logouts survive restarts and are
// shared between instances.
func newTokenStore(ctx context.Context, cfg *config.Config) (services.TokenStore, error) {
	client, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if client == nil {
		slog.Info("REDIS_ADDR not set, using in-memory token revocation")
		return services.NewMemoryTokenStore(cfg.JWTTTL), nil
	}
	return services.NewRedisTokenStore(client), nil
}

func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	var count int64
	if err := db.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		FirstName: "Admin",
		LastName:  cfg.CompanyName,
		Email:     email,
		Password:  cfg.AdminPassword,
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	slog.Info("seeded admin user", slog.String("email", admin.Email))
	return nil
}

func seedReminderTemplates(db *gorm.DB) error {
	for _, t := range models.DefaultReminderTemplates() {
		var count int64
		if err := db.Model(&models.ReminderTemplate{}).Where("type = ?", t.Type).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&t).Error; err != nil {
			return err
		}
	}
	return nil
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
