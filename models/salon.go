package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Salon is the tenant. Every other record carries its ID.
type Salon struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string            `gorm:"not null" json:"name"`
	Address      string            `json:"address"`
	Phone        string            `json:"phone"`
	LogoURL      string            `json:"logo_url"`
	PublicSlug   string            `gorm:"uniqueIndex;not null" json:"public_slug"`
	OpeningHours datatypes.JSONMap `json:"opening_hours"`

	SMSReminders      bool `gorm:"column:sms_reminders" json:"sms_reminders"`
	WhatsAppReminders bool `gorm:"column:whatsapp_reminders" json:"whatsapp_reminders"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Salon) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// RemindersEnabled reports whether any reminder channel is switched on.
func (s Salon) RemindersEnabled() bool {
	return s.SMSReminders || s.WhatsAppReminders
}

// DefaultOpeningHours mirrors the fixed booking template: weekdays only, lunch break.
func DefaultOpeningHours() datatypes.JSONMap {
	weekday := map[string]any{"open": "08:00", "close": "18:30", "lunch": "12:00-14:00", "closed": false}
	closed := map[string]any{"closed": true}
	return datatypes.JSONMap{
		"monday":    weekday,
		"tuesday":   weekday,
		"wednesday": weekday,
		"thursday":  weekday,
		"friday":    weekday,
		"saturday":  closed,
		"sunday":    closed,
	}
}
