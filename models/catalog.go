package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultServiceDuration applies when a service is saved without a duration.
const DefaultServiceDuration = 30

type Professional struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID      uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name         string    `gorm:"not null" json:"name"`
	Specialty    string    `json:"specialty"`
	Availability string    `gorm:"type:text" json:"availability"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Professional) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type Service struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name            string          `gorm:"not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Description     string          `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.DurationMinutes <= 0 {
		s.DurationMinutes = DefaultServiceDuration
	}
	return
}

// Client is an end customer. PhoneKey holds the digits of Phone and is unique per salon.
type Client struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_clients_salon_phone,priority:1" json:"salon_id"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `gorm:"not null" json:"phone"`
	PhoneKey string    `gorm:"not null;uniqueIndex:idx_clients_salon_phone,priority:2" json:"phone_key"`
	Email    string    `json:"email"`
	Notes    string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
