package appointments

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/harborlane/clinic-calendar/internal/calendar"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

var apptTracer = otel.Tracer("cliniccal.internal.appointments")

// SnapshotRepository is the persistence surface the service needs.
type SnapshotRepository interface {
	ListForRange(ctx context.Context, orgID string, start, end time.Time) ([]calendar.Appointment, error)
	ListCentral(ctx context.Context, practitionerID int64, start, end time.Time) ([]calendar.Appointment, error)
	ListPractitioners(ctx context.Context, orgID string) ([]Practitioner, error)
}

// Service loads the appointment snapshot covering the visible grid.
// Each snapshot is an immutable per-render input; the view model
// re-derives everything from it.
type Service struct {
	repo   SnapshotRepository
	logger *logging.Logger
}

// NewService constructs an appointments service.
func NewService(repo SnapshotRepository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Snapshot returns the tenant appointments covering the grid of the
// given navigation state.
func (s *Service) Snapshot(ctx context.Context, orgID string, nav calendar.Navigator) ([]calendar.Appointment, error) {
	ctx, span := apptTracer.Start(ctx, "appointments.snapshot")
	defer span.End()
	span.SetAttributes(
		attribute.String("cliniccal.org_id", orgID),
		attribute.String("cliniccal.mode", string(nav.Mode)),
	)

	start, end := fetchRange(nav)
	appts, err := s.repo.ListForRange(ctx, orgID, start, end)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Debug("appointment snapshot loaded",
		"org_id", orgID, "mode", nav.Mode, "count", len(appts))
	return appts, nil
}

// CentralSnapshot returns a practitioner's cross-tenant appointments
// covering the grid of the given navigation state.
func (s *Service) CentralSnapshot(ctx context.Context, practitionerID int64, nav calendar.Navigator) ([]calendar.Appointment, error) {
	ctx, span := apptTracer.Start(ctx, "appointments.central_snapshot")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("cliniccal.practitioner_id", practitionerID),
		attribute.String("cliniccal.mode", string(nav.Mode)),
	)

	start, end := fetchRange(nav)
	appts, err := s.repo.ListCentral(ctx, practitionerID, start, end)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return appts, nil
}

// Practitioners returns the tenant's roster for the filter panel.
func (s *Service) Practitioners(ctx context.Context, orgID string) ([]Practitioner, error) {
	ctx, span := apptTracer.Start(ctx, "appointments.practitioners")
	defer span.End()

	list, err := s.repo.ListPractitioners(ctx, orgID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return list, nil
}

// fetchRange computes the half-open date window covering the visible
// grid. List mode has no grid of its own, so it fetches the month
// around the reference date.
func fetchRange(nav calendar.Navigator) (time.Time, time.Time) {
	mode := nav.Mode
	if mode == calendar.ModeList {
		mode = calendar.ModeMonth
	}
	grid := calendar.BuildGrid(nav.Reference, mode)
	return grid[0], grid[len(grid)-1].AddDate(0, 0, 1)
}
