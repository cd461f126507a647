package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harborlane/clinic-calendar/internal/notify"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

const (
	defaultWorkerCount   = 2
	defaultWaitSeconds   = 2
	defaultBatchSize     = 5
	maxWaitSeconds       = 20
	maxReceiveBatchSize  = 10
	deleteTimeoutSeconds = 5
)

// DeliveryMetrics counts reminder delivery outcomes.
type DeliveryMetrics interface {
	ObserveReminder(status string)
}

// Worker consumes reminder jobs from the queue and delivers them by
// email.
type Worker struct {
	queue   queueClient
	email   notify.EmailSender
	jobs    JobUpdater
	metrics DeliveryMetrics
	logger  *logging.Logger

	cfg workerConfig
	wg  sync.WaitGroup
}

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	jobs             JobUpdater
	metrics          DeliveryMetrics
}

// WorkerOption customizes worker behavior.
type WorkerOption func(*workerConfig)

// WithWorkerCount sets the number of concurrent consumer goroutines.
func WithWorkerCount(count int) WorkerOption {
	return func(cfg *workerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the SQS long-poll wait duration.
func WithReceiveWaitSeconds(seconds int) WorkerOption {
	return func(cfg *workerConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxWaitSeconds {
			seconds = maxWaitSeconds
		}
		cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize sets how many messages to fetch per poll.
func WithReceiveBatchSize(size int) WorkerOption {
	return func(cfg *workerConfig) {
		if size <= 0 {
			return
		}
		if size > maxReceiveBatchSize {
			size = maxReceiveBatchSize
		}
		cfg.receiveBatchSize = size
	}
}

// WithJobStore wires a job store that records delivery outcomes.
func WithJobStore(jobs JobUpdater) WorkerOption {
	return func(cfg *workerConfig) {
		cfg.jobs = jobs
	}
}

// WithMetrics wires delivery counters.
func WithMetrics(m DeliveryMetrics) WorkerOption {
	return func(cfg *workerConfig) {
		cfg.metrics = m
	}
}

// NewWorker constructs a queue consumer that sends reminder emails.
func NewWorker(queue queueClient, email notify.EmailSender, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if queue == nil {
		panic("reminders: queue cannot be nil")
	}
	if email == nil {
		panic("reminders: email sender cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  defaultWaitSeconds,
		receiveBatchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Worker{
		queue:   queue,
		email:   email,
		jobs:    cfg.jobs,
		metrics: cfg.metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start launches worker goroutines until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("reminder worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("reminder worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive reminder jobs", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg queueMessage) {
	var job Job
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		w.logger.Error("failed to decode reminder job", "error", err)
		w.deleteMessage(msg.ReceiptHandle)
		return
	}

	if err := w.email.Send(ctx, composeReminder(job)); err != nil {
		w.logger.Error("reminder delivery failed",
			"error", err, "job_id", job.ID, "appointment_id", job.AppointmentID)
		w.observe("failed")
		w.markFailed(ctx, job.ID, err)
		w.deleteMessage(msg.ReceiptHandle)
		return
	}

	w.observe("sent")
	w.logger.Info("reminder sent",
		"job_id", job.ID, "org_id", job.OrgID, "appointment_id", job.AppointmentID)
	w.markSent(ctx, job.ID)
	w.deleteMessage(msg.ReceiptHandle)
}

func (w *Worker) observe(status string) {
	if w.metrics != nil {
		w.metrics.ObserveReminder(status)
	}
}

func (w *Worker) markSent(ctx context.Context, jobID string) {
	if w.jobs == nil || jobID == "" {
		return
	}
	if err := w.jobs.MarkSent(ctx, jobID); err != nil {
		w.logger.Error("failed to update reminder status", "error", err, "job_id", jobID)
	}
}

func (w *Worker) markFailed(ctx context.Context, jobID string, cause error) {
	if w.jobs == nil || jobID == "" {
		return
	}
	if err := w.jobs.MarkFailed(ctx, jobID, cause.Error()); err != nil {
		w.logger.Error("failed to update reminder status", "error", err, "job_id", jobID)
	}
}

func (w *Worker) deleteMessage(receiptHandle string) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeoutSeconds*time.Second)
	defer cancel()
	if err := w.queue.Delete(ctx, receiptHandle); err != nil {
		w.logger.Error("failed to delete reminder message", "error", err)
	}
}

func composeReminder(job Job) notify.EmailMessage {
	clinicName := job.ClinicName
	if clinicName == "" {
		clinicName = "your clinic"
	}
	greeting := "Hi"
	if job.PatientName != "" {
		greeting = fmt.Sprintf("Hi %s", job.PatientName)
	}

	body := fmt.Sprintf(
		"%s,\n\nThis is a reminder of your appointment at %s on %s at %s.\n\nIf you need to reschedule, please contact the clinic.\n",
		greeting, clinicName, job.AppointmentDate, job.AppointmentTime)

	return notify.EmailMessage{
		To:      job.PatientEmail,
		ToName:  job.PatientName,
		Subject: fmt.Sprintf("Appointment reminder for %s", job.AppointmentDate),
		Body:    body,
	}
}
