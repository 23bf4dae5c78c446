package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s AppointmentStatus) Valid() bool {
	return s == StatusScheduled || s.Terminal()
}

// ActiveSlotIndex is the partial unique index that keeps one scheduled
// appointment per (salon, date, time, professional).
const ActiveSlotIndex = "idx_appointments_active_slot"

type Appointment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_appointments_active_slot,priority:1,where:status = 'scheduled' AND slot_time <> ''" json:"salon_id"`

	ClientID       *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	ClientName     string     `gorm:"not null" json:"client_name"`
	ServiceID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"service_id"`
	ProfessionalID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_appointments_active_slot,priority:4" json:"professional_id"`

	Date   string            `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_appointments_active_slot,priority:2" json:"date"`
	Time   string            `gorm:"column:slot_time;type:varchar(5);not null;uniqueIndex:idx_appointments_active_slot,priority:3" json:"time"`
	Notes  string            `gorm:"type:text" json:"notes"`
	Status AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	Client       *Client       `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
	Service      *Service      `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Professional *Professional `gorm:"foreignKey:ProfessionalID;constraint:OnDelete:SET NULL" json:"professional,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return
}

// HoldsSlot reports whether a occupies time on date for professional.
func (a Appointment) HoldsSlot(date, slot string, professionalID uuid.UUID) bool {
	return a.Status == StatusScheduled &&
		a.Date == date &&
		a.Time == slot &&
		a.ProfessionalID != nil && *a.ProfessionalID == professionalID
}
