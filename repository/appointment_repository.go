package repository

import (
	"context"
	"fmt"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/models"

	"github.com/google/uuid"
)

// AppointmentFilter narrows List. Zero fields are ignored.
type AppointmentFilter struct {
	Date           string
	From           string
	To             string
	ProfessionalID *uuid.UUID
	Status         models.AppointmentStatus
}

type AppointmentRepository struct {
	scope
}

// List join-fetches client, service and professional.
func (r *AppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := r.query(ctx).Preload("Client").Preload("Service").Preload("Professional")
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var out []models.Appointment
	if err := q.Order("date").Order("slot_time").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

// OnDate returns the bare appointments of one day, without relations.
func (r *AppointmentRepository) OnDate(ctx context.Context, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := r.query(ctx).Where("date = ?", date).Order("slot_time").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("appointments on %s: %w", date, err)
	}
	return out, nil
}

// All returns every appointment of the salon without relations.
func (r *AppointmentRepository) All(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := r.query(ctx).Order("date").Order("slot_time").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var a models.Appointment
	err := r.query(ctx).
		Preload("Client").Preload("Service").Preload("Professional").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "appointment")
	}
	return &a, nil
}

// Create inserts a scheduled appointment. A collision on the active slot index
// is reported as SlotOccupied.
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	a.SalonID = r.salonID
	err := r.db.WithContext(ctx).Omit("Client", "Service", "Professional").Create(a).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperror.NewSlotOccupied(a.Date, a.Time).WithCause(err)
	}
	return translate(err, "appointment")
}

// Transition moves an appointment out of from. It reports false when the row
// was no longer in from, so concurrent transitions cannot both apply.
func (r *AppointmentRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.AppointmentStatus, reason *string, at time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	switch to {
	case models.StatusCompleted:
		updates["completed_at"] = at
	case models.StatusCancelled:
		updates["cancelled_at"] = at
		updates["cancellation_reason"] = reason
	}

	res := r.query(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("transition appointment: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Delete removes the row for good.
func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.query(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "appointment")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "appointment")
	}
	return nil
}
