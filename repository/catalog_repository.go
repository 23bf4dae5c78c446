package repository

import (
	"context"
	"fmt"

	"easyhora-backend/cache"
	"easyhora-backend/models"

	"github.com/google/uuid"
)

// SettingsRepository reads and updates the salon row itself.
type SettingsRepository struct {
	scope
}

func (r *SettingsRepository) Get(ctx context.Context) (*models.Salon, error) {
	salon, err := cached(ctx, r.scope, cache.KeySalonSettings, func() (models.Salon, error) {
		var s models.Salon
		if err := r.db.WithContext(ctx).First(&s, "id = ?", r.salonID).Error; err != nil {
			return s, translate(err, "salon")
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

// Update applies column updates to the salon.
func (r *SettingsRepository) Update(ctx context.Context, updates map[string]any) (*models.Salon, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Salon{}).Where("id = ?", r.salonID).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error, "salon")
		}
		if res.RowsAffected == 0 {
			return nil, translate(errNotFound, "salon")
		}
		r.invalidate(ctx, cache.KeySalonSettings)
	}
	return r.Get(ctx)
}

type ClientRepository struct {
	scope
}

func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	return cached(ctx, r.scope, cache.KeyClients, func() ([]models.Client, error) {
		var clients []models.Client
		if err := r.query(ctx).Order("name").Find(&clients).Error; err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		return clients, nil
	})
}

func (r *ClientRepository) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var c models.Client
	if err := r.query(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err, "client")
	}
	return &c, nil
}

// FindByPhoneKey looks a client up by normalized phone digits.
func (r *ClientRepository) FindByPhoneKey(ctx context.Context, phoneKey string) (*models.Client, error) {
	var c models.Client
	if err := r.query(ctx).First(&c, "phone_key = ?", phoneKey).Error; err != nil {
		return nil, translate(err, "client")
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	c.SalonID = r.salonID
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translate(err, "client")
	}
	r.invalidate(ctx, cache.KeyClients)
	return nil
}

func (r *ClientRepository) Save(ctx context.Context, c *models.Client) error {
	c.SalonID = r.salonID
	if err := r.update(ctx, "client", c); err != nil {
		return err
	}
	r.invalidate(ctx, cache.KeyClients)
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.query(ctx).Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "client")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "client")
	}
	r.invalidate(ctx, cache.KeyClients)
	return nil
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.query(ctx).Model(&models.Client{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

type ProfessionalRepository struct {
	scope
}

func (r *ProfessionalRepository) List(ctx context.Context) ([]models.Professional, error) {
	var out []models.Professional
	if err := r.query(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	return out, nil
}

func (r *ProfessionalRepository) Get(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	var p models.Professional
	if err := r.query(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "professional")
	}
	return &p, nil
}

func (r *ProfessionalRepository) Create(ctx context.Context, p *models.Professional) error {
	p.SalonID = r.salonID
	return translate(r.db.WithContext(ctx).Create(p).Error, "professional")
}

func (r *ProfessionalRepository) Save(ctx context.Context, p *models.Professional) error {
	p.SalonID = r.salonID
	return r.update(ctx, "professional", p)
}

func (r *ProfessionalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.query(ctx).Delete(&models.Professional{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "professional")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "professional")
	}
	return nil
}

type ServiceRepository struct {
	scope
}

func (r *ServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := r.query(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := r.query(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err, "service")
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *models.Service) error {
	s.SalonID = r.salonID
	return translate(r.db.WithContext(ctx).Create(s).Error, "service")
}

func (r *ServiceRepository) Save(ctx context.Context, s *models.Service) error {
	s.SalonID = r.salonID
	if s.DurationMinutes <= 0 {
		s.DurationMinutes = models.DefaultServiceDuration
	}
	return r.update(ctx, "service", s)
}

func (r *ServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.query(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "service")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "service")
	}
	return nil
}
