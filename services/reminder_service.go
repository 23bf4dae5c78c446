package services

import (
	"context"
	"strings"
	"time"

	"easyhora-backend/logger"
	"easyhora-backend/metrics"
	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/utils"
)

// ReminderRun summarizes one pass of the reminder job.
type ReminderRun struct {
	Salons  int `json:"salons"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (r *ReminderRun) add(o ReminderRun) {
	r.Salons += o.Salons
	r.Sent += o.Sent
	r.Failed += o.Failed
	r.Skipped += o.Skipped
}

// ReminderService texts clients the day before their appointment.
type ReminderService struct {
	store    *repository.Store
	notifier Notifier
	metrics  *metrics.BookingMetrics
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewReminderService(store *repository.Store, notifier Notifier, m *metrics.BookingMetrics, loc *time.Location, log *logger.Logger) *ReminderService {
	if log == nil {
		log = logger.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	return &ReminderService{
		store:    store,
		notifier: notifier,
		metrics:  m,
		log:      log.WithComponent("reminders"),
		loc:      loc,
		now:      time.Now,
	}
}

func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

// SendDailyReminders processes every salon with a reminder channel on. A
// failing salon is logged and does not stop the others.
func (s *ReminderService) SendDailyReminders(ctx context.Context) ReminderRun {
	ctx, span := tracer.Start(ctx, "reminders.daily")
	defer span.End()

	var run ReminderRun
	salons, err := s.store.SalonsWithReminders(ctx)
	if err != nil {
		span.RecordError(err)
		s.log.Errorw("failed to fetch salons", "error", err)
		return run
	}

	for _, salon := range salons {
		res, err := s.ProcessSalonReminders(ctx, salon)
		if err != nil {
			s.log.Errorw("salon reminders failed", "salon_id", salon.ID, "error", err)
		}
		run.add(res)
	}

	s.log.Infow("daily reminder processing completed",
		"salons", run.Salons, "sent", run.Sent, "failed", run.Failed, "skipped", run.Skipped)
	return run
}

// ProcessSalonReminders sends reminders for tomorrow's scheduled appointments of salon.
func (s *ReminderService) ProcessSalonReminders(ctx context.Context, salon models.Salon) (ReminderRun, error) {
	run := ReminderRun{Salons: 1}
	if !salon.RemindersEnabled() {
		return run, nil
	}
	t := s.store.ForSalon(salon.ID)

	template, err := t.Reminders.ActiveTemplate(ctx, models.ReminderTypeAppointment)
	if err != nil {
		return run, err
	}
	if template == nil {
		s.log.Warnw("no active reminder template", "salon_id", salon.ID)
		return run, nil
	}

	tomorrow := utils.FormatDate(s.now().In(s.loc).AddDate(0, 0, 1))
	appointments, err := t.Appointments.List(ctx, repository.AppointmentFilter{
		Date:   tomorrow,
		Status: models.StatusScheduled,
	})
	if err != nil {
		return run, err
	}

	for _, a := range appointments {
		switch s.remind(ctx, t, salon, template, a) {
		case models.ReminderSent:
			run.Sent++
		case models.ReminderFailed:
			run.Failed++
		default:
			run.Skipped++
		}
	}
	return run, nil
}

// remind returns the logged status, or "" when nothing was sent.
func (s *ReminderService) remind(ctx context.Context, t *repository.Tenant, salon models.Salon, template *models.ReminderTemplate, a models.Appointment) string {
	if a.Client == nil || strings.TrimSpace(a.Client.Phone) == "" {
		return ""
	}
	sent, err := t.Reminders.AlreadySent(ctx, a.ID)
	if err != nil {
		s.log.Warnw("reminder lookup failed", "appointment_id", a.ID, "error", err)
		return ""
	}
	if sent {
		return ""
	}

	channel := ChooseChannel(a.Client.Phone, salon.WhatsAppReminders)
	if channel == ChannelSMS && !salon.SMSReminders {
		return ""
	}

	message := RenderReminder(template.Message, salon, a)
	providerID, sendErr := s.notifier.Send(ctx, OutboundMessage{
		To:      utils.E164(a.Client.Phone),
		Body:    message,
		Channel: channel,
	})

	entry := models.ReminderLog{
		AppointmentID: a.ID,
		ClientID:      a.ClientID,
		TemplateID:    template.ID,
		Type:          template.Type,
		Message:       message,
		Status:        models.ReminderSent,
		Channel:       channel,
		ProviderID:    providerID,
		SentAt:        s.now(),
	}
	if sendErr != nil {
		entry.Status = models.ReminderFailed
		entry.ErrorMessage = sendErr.Error()
		s.log.Warnw("failed to send reminder", "appointment_id", a.ID, "channel", channel, "error", sendErr)
	}
	if err := t.Reminders.CreateLog(ctx, &entry); err != nil {
		s.log.Errorw("failed to log reminder", "appointment_id", a.ID, "error", err)
	}

	s.metrics.ObserveReminder(channel, entry.Status)
	return entry.Status
}

// RenderReminder fills the template placeholders for a.
func RenderReminder(template string, salon models.Salon, a models.Appointment) string {
	serviceName := ""
	if a.Service != nil {
		serviceName = a.Service.Name
	}
	date := a.Date
	if d, err := utils.ParseDate(a.Date, time.UTC); err == nil {
		date = d.Format("02/01/2006")
	}
	return strings.NewReplacer(
		"[ClientName]", a.ClientName,
		"[ServiceName]", serviceName,
		"[SalonName]", salon.Name,
		"[Date]", date,
		"[Time]", a.Time,
	).Replace(template)
}
