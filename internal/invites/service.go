// Package invites sends appointment invitation emails and schedules
// the follow-up reminder.
package invites

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/harborlane/clinic-calendar/internal/notify"
	"github.com/harborlane/clinic-calendar/internal/reminders"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

var invitesTracer = otel.Tracer("cliniccal.internal.invites")

// Invitation describes one patient invitation to send.
type Invitation struct {
	OrgID           string `json:"org_id"`
	AppointmentID   string `json:"appointment_id"`
	PatientEmail    string `json:"patient_email"`
	PatientName     string `json:"patient_name,omitempty"`
	ClinicName      string `json:"clinic_name,omitempty"`
	AppointmentDate string `json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime string `json:"appointment_time"` // HH:MM
	CalendarURL     string `json:"calendar_url,omitempty"`
}

// ReminderPublisher schedules a reminder for later delivery.
type ReminderPublisher interface {
	Enqueue(ctx context.Context, job reminders.Job) (string, error)
}

// DeliveryMetrics counts invitation outcomes.
type DeliveryMetrics interface {
	ObserveInvitation(status string)
}

// Service sends invitations and schedules reminders.
type Service struct {
	email     notify.EmailSender
	reminders ReminderPublisher
	logger    *logging.Logger
	metrics   DeliveryMetrics
}

// NewService creates an invitation service. The reminder publisher may
// be nil, in which case only the invitation email is sent.
func NewService(email notify.EmailSender, rem ReminderPublisher, logger *logging.Logger) *Service {
	if email == nil {
		panic("invites: email sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, reminders: rem, logger: logger}
}

// SetMetrics wires delivery counters; nil disables them.
func (s *Service) SetMetrics(m DeliveryMetrics) {
	s.metrics = m
}

func (s *Service) observe(status string) {
	if s.metrics != nil {
		s.metrics.ObserveInvitation(status)
	}
}

// Send delivers the invitation email and enqueues a reminder. A
// reminder enqueue failure does not fail the invitation; the email
// already went out.
func (s *Service) Send(ctx context.Context, inv Invitation) error {
	ctx, span := invitesTracer.Start(ctx, "invites.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("cliniccal.org_id", inv.OrgID),
		attribute.String("cliniccal.appointment_id", inv.AppointmentID),
	)

	if inv.PatientEmail == "" {
		return fmt.Errorf("invites: patient email required")
	}
	if inv.AppointmentDate == "" || inv.AppointmentTime == "" {
		return fmt.Errorf("invites: appointment date and time required")
	}

	if err := s.email.Send(ctx, composeInvitation(inv)); err != nil {
		span.RecordError(err)
		s.observe("failed")
		return fmt.Errorf("invites: send invitation: %w", err)
	}
	s.observe("sent")
	s.logger.Info("invitation sent",
		"org_id", inv.OrgID, "appointment_id", inv.AppointmentID, "to", inv.PatientEmail)

	if s.reminders != nil {
		jobID, err := s.reminders.Enqueue(ctx, reminders.Job{
			OrgID:           inv.OrgID,
			AppointmentID:   inv.AppointmentID,
			PatientEmail:    inv.PatientEmail,
			PatientName:     inv.PatientName,
			ClinicName:      inv.ClinicName,
			AppointmentDate: inv.AppointmentDate,
			AppointmentTime: inv.AppointmentTime,
		})
		if err != nil {
			span.RecordError(err)
			s.logger.Warn("reminder enqueue failed",
				"error", err, "org_id", inv.OrgID, "appointment_id", inv.AppointmentID)
		} else {
			s.logger.Debug("reminder scheduled", "job_id", jobID, "appointment_id", inv.AppointmentID)
		}
	}

	return nil
}

func composeInvitation(inv Invitation) notify.EmailMessage {
	clinicName := inv.ClinicName
	if clinicName == "" {
		clinicName = "your clinic"
	}
	greeting := "Hi"
	if inv.PatientName != "" {
		greeting = fmt.Sprintf("Hi %s", inv.PatientName)
	}

	body := fmt.Sprintf(
		"%s,\n\nYou have an appointment at %s on %s at %s.\n",
		greeting, clinicName, inv.AppointmentDate, inv.AppointmentTime)
	if inv.CalendarURL != "" {
		body += fmt.Sprintf("\nView it on the calendar: %s\n", inv.CalendarURL)
	}

	return notify.EmailMessage{
		To:      inv.PatientEmail,
		ToName:  inv.PatientName,
		Subject: fmt.Sprintf("Your appointment at %s on %s", clinicName, inv.AppointmentDate),
		Body:    body,
	}
}
