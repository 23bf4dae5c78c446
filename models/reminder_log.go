// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

type ReminderLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"salon_id"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;index;not null" json:"appointment_id"`
	ClientID      *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	TemplateID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"template_id"`
	Type          string     `gorm:"type:varchar(40)" json:"type"`
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string     `gorm:"type:text" json:"error_message,omitempty"`
	Channel       string     `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	ProviderID    string     `json:"provider_id,omitempty"`
	SentAt        time.Time  `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
