package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/rexe-automation/dispatch-notifier/internal/config"
	"github.com/rexe-automation/dispatch-notifier/internal/erp"
	"github.com/rexe-automation/dispatch-notifier/internal/handler"
	"github.com/rexe-automation/dispatch-notifier/internal/infra/postgresql"
	"github.com/rexe-automation/dispatch-notifier/internal/infra/postgresql/migrations"
	infraredis "github.com/rexe-automation/dispatch-notifier/internal/infra/redis"
	"github.com/rexe-automation/dispatch-notifier/internal/observability"
	"github.com/rexe-automation/dispatch-notifier/internal/repository"
	"github.com/rexe-automation/dispatch-notifier/internal/sender"
	"github.com/rexe-automation/dispatch-notifier/internal/service"
	"github.com/rexe-automation/dispatch-notifier/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.SMSRateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	erpClient, err := erp.NewClient(cfg.OrderAPIURL, cfg.CustomerAPIURL, cfg.ERPUsername, cfg.ERPPassword)
	if err != nil {
		logger.Fatal("erp client initialization failed", zap.Error(err))
	}

	emailSender, err := sender.NewEmailSender(sender.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		UseTLS:   cfg.SMTPUseTLS,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
		CC:       cfg.CCList(),
	}, logger)
	if err != nil {
		logger.Fatal("email sender initialization failed", zap.Error(err))
	}

	smsSender, err := sender.NewSMSSender(sender.SMSConfig{
		TokenURL:      cfg.SMSTokenURL,
		SendURL:       cfg.SMSSendURL,
		APIKey:        cfg.SMSAPIKey,
		ClientKey:     cfg.SMSClientKey,
		SenderID:      cfg.SMSSenderID,
		CallbackURL:   cfg.SMSCallbackURL,
		CountryPrefix: cfg.SMSCountryPrefix,
	}, sender.NewTokenCache(), logger)
	if err != nil {
		logger.Fatal("sms sender initialization failed", zap.Error(err))
	}

	ledger := repository.NewGormLedgerRepo(db)
	metrics := observability.NewMetrics()

	dispatcher, err := service.NewDispatcher(
		erpClient,
		ledger,
		emailSender,
		smsSender,
		limiter,
		metrics,
		logger,
		cfg.ContactPhone,
	)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}

	scheduler, err := service.NewScheduler(
		dispatcher,
		time.Duration(cfg.RunIntervalSeconds)*time.Second,
		logger,
	)
	if err != nil {
		logger.Fatal("scheduler initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          transport.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	if err := handler.RegisterDashboardRoutes(app, ledger); err != nil {
		logger.Fatal("dashboard route registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("dashboard api started", zap.Int("port", cfg.APIPort))
		return app.Listen(listenAddr(cfg.APIPort))
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down dashboard api")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	g.Go(func() error {
		err := scheduler.Start(gCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("notifier terminated", zap.Error(err))
	}
	logger.Info("notifier stopped")
}

func listenAddr(port int) string {
	return ":" + strconv.Itoa(port)
}
