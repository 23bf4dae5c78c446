// Package repository holds the gorm-backed stores. Every salon-owned table is
// reached through a Tenant, which pins the salon id on all queries.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"easyhora-backend/apperror"
	"easyhora-backend/cache"
	"easyhora-backend/logger"
	"easyhora-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the root of all repositories.
type Store struct {
	db    *gorm.DB
	cache cache.TenantCache
	log   *logger.Logger
}

func NewStore(db *gorm.DB, c cache.TenantCache, log *logger.Logger) *Store {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Store{db: db, cache: c, log: log.WithComponent("repository")}
}

// ForSalon returns the repositories scoped to salonID.
func (s *Store) ForSalon(salonID uuid.UUID) *Tenant {
	return newTenant(s, salonID)
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{db: s.db}
}

func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Transaction runs fn against a Store bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, cache: s.cache, log: s.log})
	})
}

// SalonBySlug resolves the public booking link.
func (s *Store) SalonBySlug(ctx context.Context, slug string) (*models.Salon, error) {
	var salon models.Salon
	if err := s.db.WithContext(ctx).First(&salon, "public_slug = ?", strings.ToLower(slug)).Error; err != nil {
		return nil, translate(err, "salon")
	}
	return &salon, nil
}

func (s *Store) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Salon{}).Where("public_slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count slugs: %w", err)
	}
	return count > 0, nil
}

func (s *Store) CreateSalon(ctx context.Context, salon *models.Salon) error {
	if err := s.db.WithContext(ctx).Create(salon).Error; err != nil {
		return translate(err, "salon")
	}
	return nil
}

// SalonsWithReminders lists salons that have at least one reminder channel on.
func (s *Store) SalonsWithReminders(ctx context.Context) ([]models.Salon, error) {
	var salons []models.Salon
	err := s.db.WithContext(ctx).
		Where("sms_reminders = ? OR whatsapp_reminders = ?", true, true).
		Order("created_at").
		Find(&salons).Error
	if err != nil {
		return nil, fmt.Errorf("list salons: %w", err)
	}
	return salons, nil
}

var errNotFound = gorm.ErrRecordNotFound

// translate maps driver errors onto the application taxonomy.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NewNotFound(entity)
	case isUniqueViolation(err):
		return apperror.NewConflict(entity + " already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.NewConflict(entity + " is referenced by other records").WithCause(err)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
