// Package reminders delivers appointment reminder emails through a
// queue-backed worker.
package reminders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// Job is one reminder to deliver.
type Job struct {
	ID              string `json:"id"`
	OrgID           string `json:"org_id"`
	AppointmentID   string `json:"appointment_id"`
	PatientEmail    string `json:"patient_email"`
	PatientName     string `json:"patient_name,omitempty"`
	ClinicName      string `json:"clinic_name,omitempty"`
	AppointmentDate string `json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string `json:"appointment_time"` // HH:MM
}

func encodeJob(job Job) (Job, string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	body, err := json.Marshal(job)
	if err != nil {
		return Job{}, "", fmt.Errorf("reminders: failed to encode job: %w", err)
	}

	return job, string(body), nil
}
