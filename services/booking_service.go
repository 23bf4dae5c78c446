package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/logger"
	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PublicSalon is what the public booking page shows about a salon.
type PublicSalon struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Address       string                `json:"address"`
	Phone         string                `json:"phone"`
	LogoURL       string                `json:"logo_url"`
	Slug          string                `json:"slug"`
	OpeningHours  datatypes.JSONMap     `json:"opening_hours"`
	Services      []models.Service      `json:"services"`
	Professionals []models.Professional `json:"professionals"`
}

type DaySlots struct {
	Date           string    `json:"date"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	Blocked        bool      `json:"blocked"`
	Slots          []string  `json:"slots"`
}

// PublicBooking is a booking made by a client from the salon's public page.
type PublicBooking struct {
	Name           string    `json:"name" binding:"required"`
	Phone          string    `json:"phone" binding:"required"`
	Email          string    `json:"email"`
	Notes          string    `json:"notes"`
	ServiceID      uuid.UUID `json:"service_id" binding:"required"`
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	Date           string    `json:"date" binding:"required"`
	Time           string    `json:"time" binding:"required"`
}

// BookingService resolves public links and takes bookings from them.
type BookingService struct {
	store        *repository.Store
	appointments *AppointmentService
	notifier     Notifier
	mailer       Mailer
	log          *logger.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewBookingService(store *repository.Store, appointments *AppointmentService, notifier Notifier, mailer Mailer, loc *time.Location, log *logger.Logger) *BookingService {
	if log == nil {
		log = logger.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		store:        store,
		appointments: appointments,
		notifier:     notifier,
		mailer:       mailer,
		log:          log.WithComponent("booking"),
		loc:          loc,
		now:          time.Now,
	}
}

func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func (s *BookingService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *BookingService) tenant(ctx context.Context, slug string) (*models.Salon, *repository.Tenant, error) {
	salon, err := s.store.SalonBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, nil, err
	}
	return salon, s.store.ForSalon(salon.ID), nil
}

func (s *BookingService) Salon(ctx context.Context, slug string) (*PublicSalon, error) {
	salon, t, err := s.tenant(ctx, slug)
	if err != nil {
		return nil, err
	}
	services, err := t.Services.List(ctx)
	if err != nil {
		return nil, err
	}
	professionals, err := t.Professionals.List(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicSalon{
		ID:            salon.ID,
		Name:          salon.Name,
		Address:       salon.Address,
		Phone:         salon.Phone,
		LogoURL:       salon.LogoURL,
		Slug:          salon.PublicSlug,
		OpeningHours:  salon.OpeningHours,
		Services:      services,
		Professionals: professionals,
	}, nil
}

// Dates lists the bookable dates as YYYY-MM-DD.
func (s *BookingService) Dates(ctx context.Context, slug string) ([]string, error) {
	if _, _, err := s.tenant(ctx, slug); err != nil {
		return nil, err
	}
	var out []string
	for d := range AvailableDates(s.today()) {
		out = append(out, utils.FormatDate(d))
	}
	return out, nil
}

func (s *BookingService) Slots(ctx context.Context, slug, date string, professionalID uuid.UUID) (*DaySlots, error) {
	_, t, err := s.tenant(ctx, slug)
	if err != nil {
		return nil, err
	}
	if professionalID == uuid.Nil {
		return nil, apperror.NewValidation("professional_id is required").WithDetail("field", "professional_id")
	}
	if _, err := t.Professionals.Get(ctx, professionalID); err != nil {
		return nil, err
	}
	slots, err := s.appointments.Slots(ctx, t, date, professionalID)
	if err != nil {
		return nil, err
	}
	blocked, err := t.BlockedDates.Set(ctx)
	if err != nil {
		return nil, err
	}
	_, isBlocked := blocked[date]
	return &DaySlots{Date: date, ProfessionalID: professionalID, Blocked: isBlocked, Slots: slots}, nil
}

// Book finds or creates the client by phone and schedules the appointment.
// Confirmations are best-effort and never fail the booking.
func (s *BookingService) Book(ctx context.Context, slug string, req PublicBooking) (*models.Appointment, error) {
	salon, t, err := s.tenant(ctx, slug)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	if err := validatePublicBooking(req); err != nil {
		return nil, err
	}
	if !IsAvailableDate(s.today(), req.Date) {
		return nil, apperror.NewValidation("date is not open for booking").WithDetail("date", req.Date)
	}

	client, err := s.findOrCreateClient(ctx, t, req)
	if err != nil {
		return nil, err
	}

	a, err := s.appointments.Create(ctx, t, NewAppointment{
		ClientID:       &client.ID,
		ServiceID:      req.ServiceID,
		ProfessionalID: &req.ProfessionalID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		Source:         SourcePublic,
	})
	if err != nil {
		return nil, err
	}

	s.confirm(ctx, salon, client, a)
	return a, nil
}

func validatePublicBooking(req PublicBooking) error {
	missing := func(field string) error {
		return apperror.NewValidation(field + " is required").WithDetail("field", field)
	}
	switch {
	case req.Name == "":
		return missing("name")
	case req.Phone == "":
		return missing("phone")
	case req.ServiceID == uuid.Nil:
		return missing("service_id")
	case req.ProfessionalID == uuid.Nil:
		return missing("professional_id")
	case strings.TrimSpace(req.Date) == "":
		return missing("date")
	case strings.TrimSpace(req.Time) == "":
		return missing("time")
	}
	if !utils.ValidatePhone(req.Phone) {
		return apperror.NewValidation("invalid phone number").WithDetail("phone", req.Phone)
	}
	if err := utils.ValidateDate(strings.TrimSpace(req.Date)); err != nil {
		return err
	}
	return nil
}

func (s *BookingService) findOrCreateClient(ctx context.Context, t *repository.Tenant, req PublicBooking) (*models.Client, error) {
	key := utils.NormalizePhone(req.Phone)
	existing, err := t.Clients.FindByPhoneKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsCode(err, apperror.CodeNotFound) {
		return nil, err
	}

	client := &models.Client{
		Name:     req.Name,
		Phone:    req.Phone,
		PhoneKey: key,
		Email:    req.Email,
		Notes:    strings.TrimSpace(req.Notes),
	}
	err = t.Clients.Create(ctx, client)
	if apperror.IsCode(err, apperror.CodeConflict) {
		// created by a concurrent booking with the same phone
		return t.Clients.FindByPhoneKey(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *BookingService) confirm(ctx context.Context, salon *models.Salon, client *models.Client, a *models.Appointment) {
	date := a.Date
	if d, err := utils.ParseDate(a.Date, s.loc); err == nil {
		date = d.Format("02/01/2006")
	}
	body := fmt.Sprintf("Agendamento confirmado em %s para %s às %s.", salon.Name, date, a.Time)

	if s.notifier != nil {
		channel := ChooseChannel(client.Phone, salon.WhatsAppReminders)
		if _, err := s.notifier.Send(ctx, OutboundMessage{To: utils.E164(client.Phone), Body: body, Channel: channel}); err != nil {
			s.log.Warnw("booking confirmation not sent", "appointment_id", a.ID, "error", err)
		}
	}
	if s.mailer != nil && client.Email != "" {
		err := s.mailer.SendEmail(ctx, EmailMessage{
			To:      client.Email,
			ToName:  client.Name,
			Subject: "Agendamento confirmado - " + salon.Name,
			Body:    body,
		})
		if err != nil {
			s.log.Warnw("booking confirmation e-mail not sent", "appointment_id", a.ID, "error", err)
		}
	}
}
