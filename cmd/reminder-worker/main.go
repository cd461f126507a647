package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/harborlane/clinic-calendar/cmd/mainconfig"
	appconfig "github.com/harborlane/clinic-calendar/internal/config"
	"github.com/harborlane/clinic-calendar/internal/notify"
	"github.com/harborlane/clinic-calendar/internal/reminders"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	awsConfig, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	queue := reminders.NewSQSQueue(sqs.NewFromConfig(awsConfig), cfg.ReminderQueueURL)
	jobStore := reminders.NewJobStore(dynamodb.NewFromConfig(awsConfig), cfg.ReminderJobTable, logger)

	var email notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		email = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		email = notify.NewSESSender(sesv2.NewFromConfig(awsConfig), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		email = notify.NewStubEmailSender(logger)
	}

	worker := reminders.NewWorker(
		queue,
		email,
		logger,
		reminders.WithWorkerCount(cfg.WorkerCount),
		reminders.WithJobStore(jobStore),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down reminder worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("reminder worker stopped")
	case <-doneCtx.Done():
		logger.Error("reminder worker shutdown timed out", "error", doneCtx.Err())
	}
}
