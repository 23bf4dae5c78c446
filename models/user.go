package models

import (
	"strings"
	"time"

	"easyhora-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanTrial    = "trial"
	PlanActive   = "active"
	PlanInactive = "inactive"
)

// User is a salon owner account.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID  uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone    string    `gorm:"index" json:"phone"`
	Password string    `gorm:"not null" json:"-"`

	Plan               string     `gorm:"type:varchar(20);not null" json:"plan"`
	TrialEnd           *time.Time `json:"trial_end"`
	CheckoutCustomerID string     `json:"-"`

	LastLogin *time.Time `json:"last_login"`

	Salon Salon `gorm:"foreignKey:SalonID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID and hashes the plain-text password.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Plan == "" {
		u.Plan = PlanTrial
	}
	if strings.HasPrefix(u.Password, "$2") {
		return nil
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword compares a plain-text password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.Password)
}

// TrialActive reports whether the stored trial still covers now.
func (u *User) TrialActive(now time.Time) bool {
	return u.Plan == PlanTrial && u.TrialEnd != nil && u.TrialEnd.After(now)
}

// Profile mirrors a User for plan bookkeeping. Kept in sync by the profile sync job.
type Profile struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Email      string     `json:"email"`
	PlanActive bool       `json:"plan_active"`
	SyncedAt   *time.Time `json:"synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
