package reminders

import (
	"context"
	"fmt"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// Publisher enqueues reminder jobs for asynchronous delivery.
type Publisher struct {
	queue  queueClient
	jobs   JobRecorder
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher. The job store may be
// nil, in which case reminders are fire-and-forget.
func NewPublisher(queue queueClient, jobs JobRecorder, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("reminders: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		jobs:   jobs,
		logger: logger,
	}
}

// Enqueue publishes a reminder job, recording it as pending first so
// the worker's outcome is observable.
func (p *Publisher) Enqueue(ctx context.Context, job Job) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if job.PatientEmail == "" {
		return "", fmt.Errorf("reminders: patient email required")
	}

	job, body, err := encodeJob(job)
	if err != nil {
		return "", err
	}

	if p.jobs != nil {
		if err := p.jobs.PutPending(ctx, &JobRecord{JobID: job.ID, Job: job}); err != nil {
			return "", err
		}
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return "", fmt.Errorf("reminders: failed to enqueue job: %w", err)
	}

	p.logger.Debug("reminder enqueued",
		"job_id", job.ID, "org_id", job.OrgID, "appointment_id", job.AppointmentID)
	return job.ID, nil
}
