package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/harborlane/clinic-calendar/cmd/mainconfig"
	"github.com/harborlane/clinic-calendar/internal/api/router"
	"github.com/harborlane/clinic-calendar/internal/appointments"
	"github.com/harborlane/clinic-calendar/internal/attendance"
	"github.com/harborlane/clinic-calendar/internal/clinic"
	appconfig "github.com/harborlane/clinic-calendar/internal/config"
	"github.com/harborlane/clinic-calendar/internal/http/handlers"
	"github.com/harborlane/clinic-calendar/internal/icsfeed"
	"github.com/harborlane/clinic-calendar/internal/invites"
	"github.com/harborlane/clinic-calendar/internal/live"
	"github.com/harborlane/clinic-calendar/internal/notify"
	"github.com/harborlane/clinic-calendar/internal/observability/metrics"
	"github.com/harborlane/clinic-calendar/internal/reminders"
	"github.com/harborlane/clinic-calendar/internal/viewer"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

func main() {
	// Local development reads settings from a .env file if present.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-calendar API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	calMetrics := metrics.NewCalendarMetrics(reg)
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	redisClient := connectRedis(cfg)
	clinicStore := clinic.NewStore(redisClient)
	sessionStore := viewer.NewSessionStore(redisClient, cfg.ViewerTimezoneTTL)

	var assetStore *clinic.AssetStore
	if cfg.BrandingBucket != "" {
		assetStore = clinic.NewAssetStore(s3.NewFromConfig(awsCfg), cfg.BrandingBucket)
	}

	hub := live.NewHub(logger)
	hub.SetMetrics(calMetrics)

	clinicHandler := clinic.NewHandler(clinicStore, assetStore, nil, logger)
	clinicHandler.SetNotifier(hub)

	emailSender := setupEmailSender(cfg, awsCfg, logger)
	publisher, inlineWorker := setupReminders(cfg, awsCfg, emailSender, calMetrics, logger)
	if inlineWorker != nil {
		inlineWorker.Start(ctx)
	}

	inviteService := invites.NewService(emailSender, publisher, logger)
	inviteService.SetMetrics(calMetrics)

	routerCfg := &router.Config{
		Logger:              logger,
		ClinicHandler:       clinicHandler,
		ViewerHandler:       viewer.NewHandler(sessionStore, logger),
		InvitationsHandler:  invites.NewHandler(inviteService, logger),
		LiveHub:             hub,
		MetricsHandler:      metricsHandler,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  splitOrigins(cfg.CORSAllowedOrigins),
		InviteRatePerSecond: 1,
		InviteBurst:         10,
	}

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		apptService := appointments.NewService(appointments.NewRepository(pool), logger)
		routerCfg.CalendarHandler = handlers.NewCalendarHandler(
			apptService, clinicStore, sessionStore, calMetrics, cfg.DefaultTimezone, logger)
		routerCfg.FeedHandler = icsfeed.NewHandler(apptService, clinicStore, logger)
	} else {
		logger.Warn("DATABASE_URL not set, calendar endpoints disabled")
	}

	if cfg.DatabaseURL != "" {
		attendanceRepo, err := attendance.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open attendance store", "error", err)
			os.Exit(1)
		}
		routerCfg.AttendanceHandler = attendance.NewHandler(attendanceRepo, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
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
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if inlineWorker != nil {
		inlineWorker.Wait()
	}

	logger.Info("server stopped")
}

// connectRedis builds the shared Redis client used for clinic settings
// and viewer sessions.
func connectRedis(cfg *appconfig.Config) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}

// connectPostgresPool returns a pgx pool, or nil when no URL is
// configured so the server can still run without appointment data.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(databaseURL) == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	return pool
}

// setupEmailSender picks the configured provider, falling back to the
// log-only stub.
func setupEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}

// setupReminders wires the reminder pipeline. With the memory queue an
// inline worker consumes jobs in-process; with SQS a separate
// reminder-worker binary consumes them and the DynamoDB job store
// tracks delivery.
func setupReminders(cfg *appconfig.Config, awsCfg aws.Config, email notify.EmailSender,
	m *metrics.CalendarMetrics, logger *logging.Logger) (*reminders.Publisher, *reminders.Worker) {
	if cfg.UseMemoryQueue || cfg.ReminderQueueURL == "" {
		if !cfg.UseMemoryQueue {
			logger.Warn("REMINDER_QUEUE_URL not set, using in-process reminder queue")
		}
		queue := reminders.NewMemoryQueue(0)
		worker := reminders.NewWorker(queue, email, logger,
			reminders.WithWorkerCount(cfg.WorkerCount),
			reminders.WithMetrics(m),
		)
		return reminders.NewPublisher(queue, nil, logger), worker
	}

	queue := reminders.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.ReminderQueueURL)
	jobs := reminders.NewJobStore(dynamodb.NewFromConfig(awsCfg), cfg.ReminderJobTable, logger)
	return reminders.NewPublisher(queue, jobs, logger), nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
