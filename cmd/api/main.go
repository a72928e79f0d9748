package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/parcefx/landing-api/internal/api/router"
	appconfig "github.com/parcefx/landing-api/internal/config"
	"github.com/parcefx/landing-api/internal/http/handlers"
	"github.com/parcefx/landing-api/internal/leads"
	"github.com/parcefx/landing-api/internal/notify"
	"github.com/parcefx/landing-api/internal/observability/metrics"
	"github.com/parcefx/landing-api/internal/ratelimit"
	"github.com/parcefx/landing-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting parcefx landing API",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead storage: Postgres when configured, in-memory for local dev.
	var repo leads.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory lead store")
		repo = leads.NewInMemoryRepository()
	}

	limiter := buildLimiter(cfg, logger)
	sender := buildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(sender, notify.ServiceConfig{
		NotifyEmail:    cfg.NotifyEmail,
		StrategyPDFURL: cfg.StrategyPDFURL,
	}, logger)
	leadMetrics := metrics.NewLeadMetrics(nil)

	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Repo:             repo,
		Limiter:          limiter,
		Notifier:         notifier,
		Metrics:          leadMetrics,
		Logger:           logger,
		MinSubmitElapsed: cfg.MinSubmitElapsed,
	})
	adminLeadsHandler := leads.NewAdminHandler(repo, logger)
	adminLogin := handlers.NewAdminLoginHandler(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminJWTSecret, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		AdminLeadsHandler:  adminLeadsHandler,
		AdminLogin:         adminLogin,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildLimiter picks the rate-limit backend. The in-memory limiter is the
// default; each replica then counts independently, so multi-instance
// deployments should set RATE_LIMIT_BACKEND=redis.
func buildLimiter(cfg *appconfig.Config, logger *logging.Logger) ratelimit.Limiter {
	if cfg.RateLimitBackend == "redis" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		logger.Info("using redis rate limiter", "addr", cfg.RedisAddr)
		return ratelimit.NewRedis(redis.NewClient(opts), cfg.RateLimitMax, cfg.RateLimitWindow, nil)
	}
	return ratelimit.NewMemory(cfg.RateLimitMax, cfg.RateLimitWindow, nil)
}

// buildEmailSender selects the configured provider, degrading to the stub
// sender when credentials are missing so the pipeline keeps working.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "resend":
		if sender := notify.NewResendSender(notify.ResendConfig{
			APIKey:    cfg.ResendAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("RESEND_API_KEY not set, emails will not be sent")
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("SENDGRID_API_KEY not set, emails will not be sent")
	case "ses":
		awsOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
			awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
		if err != nil {
			logger.Error("failed to load AWS config, emails will not be sent", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		}, logger); sender != nil {
			return sender
		}
	case "stub":
	default:
		logger.Warn("unknown email provider, emails will not be sent", "provider", cfg.EmailProvider)
	}
	return notify.NewStubEmailSender(logger)
}
