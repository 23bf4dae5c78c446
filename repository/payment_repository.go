package repository

import (
	"context"
	"fmt"

	"easyhora-backend/models"

	"github.com/google/uuid"
)

// PaymentFilter narrows payment listings by inclusive date range and method.
type PaymentFilter struct {
	From   string
	To     string
	Method models.PaymentMethod
}

type PaymentRepository struct {
	scope
}

func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	q := r.query(ctx)
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	var out []models.Payment
	if err := q.Order("date DESC").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	if err := r.query(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "payment")
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	p.SalonID = r.salonID
	return translate(r.db.WithContext(ctx).Create(p).Error, "payment")
}

func (r *PaymentRepository) Save(ctx context.Context, p *models.Payment) error {
	p.SalonID = r.salonID
	return r.update(ctx, "payment", p)
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.query(ctx).Delete(&models.Payment{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "payment")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "payment")
	}
	return nil
}
