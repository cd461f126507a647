package main

import (
	"context"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"

	appconfig "github.com/harborlane/clinic-calendar/internal/config"
	"github.com/harborlane/clinic-calendar/internal/notify"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

func TestConnectPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	logger := logging.New("error")
	if pool := connectPostgresPool(context.Background(), "", logger); pool != nil {
		t.Fatalf("expected nil pool for empty URL")
	}
}

func TestSetupEmailSenderDefaultsToStub(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{EmailProvider: "stub"}

	sender := setupEmailSender(cfg, aws.Config{}, logger)
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender, got %T", sender)
	}
}

func TestSetupEmailSenderSendGrid(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		EmailProvider:     "sendgrid",
		SendGridAPIKey:    "SG.test",
		SendGridFromEmail: "noreply@example.com",
	}

	sender := setupEmailSender(cfg, aws.Config{}, logger)
	if _, ok := sender.(*notify.SendGridSender); !ok {
		t.Fatalf("expected sendgrid sender, got %T", sender)
	}
}

func TestSetupRemindersMemoryQueue(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{UseMemoryQueue: true, WorkerCount: 1}

	publisher, worker := setupReminders(cfg, aws.Config{}, notify.NewStubEmailSender(logger), nil, logger)
	if publisher == nil {
		t.Fatalf("expected publisher")
	}
	if worker == nil {
		t.Fatalf("expected inline worker with memory queue")
	}
}

func TestSetupRemindersEmptyQueueURLFallsBackToMemory(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{UseMemoryQueue: false, WorkerCount: 1}

	publisher, worker := setupReminders(cfg, aws.Config{}, notify.NewStubEmailSender(logger), nil, logger)
	if publisher == nil {
		t.Fatalf("expected publisher")
	}
	if worker == nil {
		t.Fatalf("expected inline worker when no queue URL is configured")
	}
}

func TestSetupRemindersSQSPath(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		UseMemoryQueue:   false,
		AWSRegion:        "us-east-1",
		ReminderQueueURL: "http://localhost:4566/queue/reminders",
		ReminderJobTable: "reminder-jobs",
	}
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	publisher, worker := setupReminders(cfg, aws.Config{Region: cfg.AWSRegion}, notify.NewStubEmailSender(logger), nil, logger)
	if publisher == nil {
		t.Fatalf("expected publisher")
	}
	if worker != nil {
		t.Fatalf("expected no inline worker on the SQS path")
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins(" https://a.example.com, https://b.example.com ,")
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitOrigins = %v, want %v", got, want)
	}
	if splitOrigins("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
