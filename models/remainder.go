package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReminderTypeAppointment = "appointment_reminder"

// DefaultReminderMessage seeds the template created at signup.
const DefaultReminderMessage = "Olá [ClientName]! Lembrete do seu horário de [ServiceName] em [SalonName] no dia [Date] às [Time]. Até lá!"

type ReminderTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID  uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Type     string    `gorm:"type:varchar(40);not null" json:"type"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
