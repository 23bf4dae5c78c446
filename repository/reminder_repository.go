package repository

import (
	"context"
	"errors"
	"fmt"

	"easyhora-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	scope
}

func (r *ReminderRepository) Templates(ctx context.Context) ([]models.ReminderTemplate, error) {
	var out []models.ReminderTemplate
	if err := r.query(ctx).Order("type").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list reminder templates: %w", err)
	}
	return out, nil
}

// ActiveTemplate returns nil without error when the salon has none.
func (r *ReminderRepository) ActiveTemplate(ctx context.Context, kind string) (*models.ReminderTemplate, error) {
	var t models.ReminderTemplate
	err := r.query(ctx).Where("type = ? AND is_active = ?", kind, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active template: %w", err)
	}
	return &t, nil
}

func (r *ReminderRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ReminderTemplate, error) {
	var t models.ReminderTemplate
	if err := r.query(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err, "reminder template")
	}
	return &t, nil
}

func (r *ReminderRepository) CreateTemplate(ctx context.Context, t *models.ReminderTemplate) error {
	t.SalonID = r.salonID
	return translate(r.db.WithContext(ctx).Create(t).Error, "reminder template")
}

func (r *ReminderRepository) SaveTemplate(ctx context.Context, t *models.ReminderTemplate) error {
	t.SalonID = r.salonID
	return r.update(ctx, "reminder template", t)
}

func (r *ReminderRepository) Logs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []models.ReminderLog
	if err := r.query(ctx).Order("sent_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list reminder logs: %w", err)
	}
	return out, nil
}

func (r *ReminderRepository) CreateLog(ctx context.Context, l *models.ReminderLog) error {
	l.SalonID = r.salonID
	return translate(r.db.WithContext(ctx).Create(l).Error, "reminder log")
}

// AlreadySent reports whether a reminder was delivered for the appointment.
func (r *ReminderRepository) AlreadySent(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var n int64
	err := r.query(ctx).Model(&models.ReminderLog{}).
		Where("appointment_id = ? AND status = ?", appointmentID, models.ReminderSent).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count reminder logs: %w", err)
	}
	return n > 0, nil
}
