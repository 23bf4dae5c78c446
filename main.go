package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easyhora-backend/cache"
	"easyhora-backend/config"
	"easyhora-backend/logger"
	"easyhora-backend/metrics"
	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/routes"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}

	store := repository.NewStore(db, tenantCache(cfg, log), log)
	loc := cfg.Location()

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		log.Fatalw("invalid JWT configuration", "error", err)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	var notifier services.Notifier = services.NewLogNotifier(log)
	if twilio := services.NewTwilioNotifier(services.TwilioConfig{
		AccountSID:     cfg.TwilioAccountSID,
		AuthToken:      cfg.TwilioAuthToken,
		PhoneNumber:    cfg.TwilioPhoneNumber,
		WhatsAppNumber: cfg.TwilioWhatsAppNumber,
	}, log); twilio != nil {
		notifier = twilio
	} else {
		log.Warnw("twilio credentials missing, messages are only logged")
	}

	var mailer services.Mailer
	if sendgrid := services.NewSendGridMailer(services.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, log); sendgrid != nil {
		mailer = sendgrid
	}

	stripe := services.NewStripeClient(cfg.StripeSecretKey, log).WithDryRun(cfg.StripeDryRun)

	appointments := services.NewAppointmentService(log, bookingMetrics)
	reminders := services.NewReminderService(store, notifier, bookingMetrics, loc, log)
	subscriptions := services.NewSubscriptionService(store, stripe, services.SubscriptionConfig{
		PlanPrices: cfg.PlanPrices,
		TrialDays:  cfg.TrialDays,
		SuccessURL: cfg.CheckoutSuccessURL,
		CancelURL:  cfg.CheckoutCancelURL,
	}, log)

	router := routes.SetupRouter(routes.Deps{
		Config:        cfg,
		Log:           log,
		Store:         store,
		Tokens:        tokens,
		HTTPMetrics:   httpMetrics,
		Gatherer:      registry,
		Location:      loc,
		Auth:          services.NewAuthService(store, tokens, cfg.TrialDays, log),
		Appointments:  appointments,
		Booking:       services.NewBookingService(store, appointments, notifier, mailer, loc, log),
		Reminders:     reminders,
		Subscriptions: subscriptions,
	})

	scheduler := utils.NewScheduler(loc, log)
	if err := scheduler.AddJob("appointment-reminders", cfg.ReminderCron, func(ctx context.Context) {
		run := reminders.SendDailyReminders(ctx)
		logger.Info(ctx, "reminders sent", "salons", run.Salons, "sent", run.Sent, "failed", run.Failed, "skipped", run.Skipped)
	}); err != nil {
		log.Fatalw("invalid reminder schedule", "error", err)
	}
	if err := scheduler.AddJob("profile-sync", cfg.ProfileSyncCron, func(ctx context.Context) {
		res, err := subscriptions.SyncProfiles(ctx)
		if err != nil {
			logger.Error(ctx, "profile sync failed", "error", err)
			return
		}
		logger.Info(ctx, res.Message)
	}); err != nil {
		log.Fatalw("invalid profile sync schedule", "error", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	scheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
}

// tenantCache connects to Redis when configured. An unreachable Redis disables caching.
func tenantCache(cfg *config.Config, log *logger.Logger) cache.TenantCache {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unavailable, cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return cache.Noop{}
	}
	return cache.NewRedisCache(client, cfg.CacheTTL)
}
