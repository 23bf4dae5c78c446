package services

import (
	"context"
	"strings"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/logger"
	"easyhora-backend/metrics"
	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("easyhora.services")

const (
	SourceDashboard = "dashboard"
	SourcePublic    = "public"
)

// NewAppointment is a booking request. ClientID or ClientName identifies the client.
type NewAppointment struct {
	ClientID       *uuid.UUID
	ClientName     string
	ServiceID      uuid.UUID
	ProfessionalID *uuid.UUID
	Date           string
	Time           string
	Notes          string
	Source         string
}

// AppointmentService creates appointments and moves them through their
// lifecycle: scheduled, then completed or cancelled.
type AppointmentService struct {
	log     *logger.Logger
	metrics *metrics.BookingMetrics
	now     func() time.Time
}

func NewAppointmentService(log *logger.Logger, m *metrics.BookingMetrics) *AppointmentService {
	if log == nil {
		log = logger.Default()
	}
	return &AppointmentService{
		log:     log.WithComponent("appointments"),
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the time source.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// Create validates req and inserts a scheduled appointment.
func (s *AppointmentService) Create(ctx context.Context, t *repository.Tenant, req NewAppointment) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("easyhora.salon_id", t.SalonID.String()),
		attribute.String("easyhora.date", req.Date),
		attribute.String("easyhora.time", req.Time),
	)

	source := req.Source
	if source == "" {
		source = SourceDashboard
	}

	a, err := s.create(ctx, t, req)
	if err != nil {
		s.metrics.ObserveBooking(source, outcome(err))
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveBooking(source, "created")
	s.log.Infow("appointment created",
		"salon_id", t.SalonID, "appointment_id", a.ID, "date", a.Date, "time", a.Time, "source", source)
	return a, nil
}

func (s *AppointmentService) create(ctx context.Context, t *repository.Tenant, req NewAppointment) (*models.Appointment, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	if req.ClientID == nil && req.ClientName == "" {
		return nil, apperror.NewValidation("client is required").WithDetail("field", "client")
	}
	if req.ServiceID == uuid.Nil {
		return nil, apperror.NewValidation("service is required").WithDetail("field", "service")
	}
	if req.Date == "" {
		return nil, apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if err := utils.ValidateDate(req.Date); err != nil {
		return nil, err
	}
	if req.Time != "" {
		if err := utils.ValidateTimeOfDay(req.Time); err != nil {
			return nil, err
		}
		if !IsTemplateSlot(req.Time) {
			return nil, apperror.NewValidation("time is not a bookable slot").WithDetail("time", req.Time)
		}
	}

	if req.ClientID != nil {
		client, err := t.Clients.Get(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		req.ClientName = client.Name
	}
	if _, err := t.Services.Get(ctx, req.ServiceID); err != nil {
		return nil, err
	}
	if req.ProfessionalID != nil {
		if _, err := t.Professionals.Get(ctx, *req.ProfessionalID); err != nil {
			return nil, err
		}
	}

	blocked, err := t.BlockedDates.Contains(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, apperror.NewDateBlocked(req.Date)
	}

	if req.ProfessionalID != nil && req.Time != "" {
		sameDay, err := t.Appointments.OnDate(ctx, req.Date)
		if err != nil {
			return nil, err
		}
		if err := ValidateBooking(nil, sameDay, req.Date, req.Time, *req.ProfessionalID); err != nil {
			return nil, err
		}
	}

	a := &models.Appointment{
		ClientID:       req.ClientID,
		ClientName:     req.ClientName,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          strings.TrimSpace(req.Notes),
		Status:         models.StatusScheduled,
	}
	// the unique index rejects a booking that raced past the check above
	if err := t.Appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Transition moves a scheduled appointment to completed or cancelled. The
// reason is kept only for cancellations.
func (s *AppointmentService) Transition(ctx context.Context, t *repository.Tenant, id uuid.UUID, to models.AppointmentStatus, reason string) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.transition", trace.WithAttributes(
		attribute.String("easyhora.appointment_id", id.String()),
		attribute.String("easyhora.status", string(to)),
	))
	defer span.End()

	a, err := s.transition(ctx, t, id, to, reason)
	if err != nil {
		s.metrics.ObserveTransition(string(to), outcome(err))
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(string(to), "ok")
	s.log.Infow("appointment status changed", "salon_id", t.SalonID, "appointment_id", id, "status", to)
	return a, nil
}

func (s *AppointmentService) transition(ctx context.Context, t *repository.Tenant, id uuid.UUID, to models.AppointmentStatus, reason string) (*models.Appointment, error) {
	if !to.Terminal() {
		return nil, apperror.NewValidation("status must be completed or cancelled").WithDetail("status", string(to))
	}

	current, err := t.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, apperror.NewInvalidTransition(string(current.Status), string(to))
	}

	var cancelReason *string
	if to == models.StatusCancelled {
		if r := strings.TrimSpace(reason); r != "" {
			cancelReason = &r
		}
	}

	applied, err := t.Appointments.Transition(ctx, id, models.StatusScheduled, to, cancelReason, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := t.Appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperror.NewInvalidTransition(string(updated.Status), string(to))
	}
	return updated, nil
}

// BlockDate adds date to the salon's blocked dates. Repeated calls add repeated rows.
func (s *AppointmentService) BlockDate(ctx context.Context, t *repository.Tenant, date, reason string) (*models.BlockedDate, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if err := utils.ValidateDate(date); err != nil {
		return nil, err
	}
	b, err := t.BlockedDates.Add(ctx, date, reason)
	if err != nil {
		return nil, err
	}
	s.log.Infow("date blocked", "salon_id", t.SalonID, "date", date)
	return b, nil
}

// Slots returns the free template times of professionalID on date.
func (s *AppointmentService) Slots(ctx context.Context, t *repository.Tenant, date string, professionalID uuid.UUID) ([]string, error) {
	if err := utils.ValidateDate(date); err != nil {
		return nil, err
	}
	sameDay, err := t.Appointments.OnDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return AvailableSlots(DailyTemplate, sameDay, date, professionalID), nil
}

func outcome(err error) string {
	if appErr := apperror.AsAppError(err); appErr != nil {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
