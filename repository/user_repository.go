package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easyhora-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// FindByIdentifier matches an email (case-insensitive) or a phone number.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	var u models.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", strings.ToLower(identifier), identifier).
		First(&u).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, email, phone string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", strings.ToLower(email))
	if phone != "" {
		q = q.Or("phone = ?", phone)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(r.db.WithContext(ctx).Create(u).Error, "user")
}

func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// MarkSubscribed records an active paid plan and the checkout customer id.
func (r *UserRepository) MarkSubscribed(ctx context.Context, id uuid.UUID, customerID string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"plan": models.PlanActive, "checkout_customer_id": customerID}).Error
	if err != nil {
		return fmt.Errorf("mark subscribed: %w", err)
	}
	return nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error; err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

type ProfileRepository struct {
	db *gorm.DB
}

// ByUserID returns every profile keyed by user id.
func (r *ProfileRepository) ByUserID(ctx context.Context) (map[uuid.UUID]models.Profile, error) {
	var rows []models.Profile
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make(map[uuid.UUID]models.Profile, len(rows))
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "profile")
}

func (r *ProfileRepository) Activate(ctx context.Context, userID uuid.UUID, email string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).
		Updates(map[string]any{"plan_active": true, "email": email, "synced_at": at}).Error
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	return nil
}
