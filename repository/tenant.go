package repository

import (
	"context"

	"easyhora-backend/cache"
	"easyhora-backend/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tenantKey struct{}

// Tenant is the set of repositories for one salon. It is built once per
// authenticated request and carried in the request context.
type Tenant struct {
	SalonID uuid.UUID

	Settings      *SettingsRepository
	Clients       *ClientRepository
	Professionals *ProfessionalRepository
	Services      *ServiceRepository
	Appointments  *AppointmentRepository
	Payments      *PaymentRepository
	BlockedDates  *BlockedDateRepository
	Reminders     *ReminderRepository
}

// scope carries what all tenant repositories share.
type scope struct {
	db      *gorm.DB
	cache   cache.TenantCache
	log     *logger.Logger
	salonID uuid.UUID
}

func (s scope) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("salon_id = ?", s.salonID)
}

// update writes every column of value except its identity, within the salon.
func (s scope) update(ctx context.Context, entity string, value any) error {
	res := s.query(ctx).Model(value).Select("*").Omit("id", "salon_id", "created_at").Updates(value)
	if res.Error != nil {
		return translate(res.Error, entity)
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, entity)
	}
	return nil
}

func (s scope) invalidate(ctx context.Context, names ...string) {
	if err := s.cache.Invalidate(ctx, s.salonID, names...); err != nil {
		s.log.Warnw("cache invalidate failed", "salon_id", s.salonID, "keys", names, "error", err)
	}
}

// cached loads name from the cache or calls load and stores the result.
func cached[T any](ctx context.Context, s scope, name string, load func() (T, error)) (T, error) {
	var out T
	hit, err := s.cache.Get(ctx, s.salonID, name, &out)
	if err != nil {
		s.log.Warnw("cache read failed", "salon_id", s.salonID, "key", name, "error", err)
	}
	if hit {
		return out, nil
	}

	out, err = load()
	if err != nil {
		return out, err
	}
	if err := s.cache.Set(ctx, s.salonID, name, out); err != nil {
		s.log.Warnw("cache write failed", "salon_id", s.salonID, "key", name, "error", err)
	}
	return out, nil
}

func newTenant(s *Store, salonID uuid.UUID) *Tenant {
	sc := scope{db: s.db, cache: s.cache, log: s.log, salonID: salonID}
	return &Tenant{
		SalonID:       salonID,
		Settings:      &SettingsRepository{scope: sc},
		Clients:       &ClientRepository{scope: sc},
		Professionals: &ProfessionalRepository{scope: sc},
		Services:      &ServiceRepository{scope: sc},
		Appointments:  &AppointmentRepository{scope: sc},
		Payments:      &PaymentRepository{scope: sc},
		BlockedDates:  &BlockedDateRepository{scope: sc},
		Reminders:     &ReminderRepository{scope: sc},
	}
}

// WithTenant stores t in ctx.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey{}, t)
}

// TenantFromContext returns the Tenant stored by WithTenant.
func TenantFromContext(ctx context.Context) (*Tenant, bool) {
	t, ok := ctx.Value(tenantKey{}).(*Tenant)
	return t, ok && t != nil
}
