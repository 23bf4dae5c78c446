package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	MethodCash            PaymentMethod = "cash"
	MethodDebit           PaymentMethod = "debit"
	MethodCredit          PaymentMethod = "credit"
	MethodInstantTransfer PaymentMethod = "instant_transfer"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{MethodCash, MethodDebit, MethodCredit, MethodInstantTransfer}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Payment is recorded by the owner. AppointmentID is optional and only links the
// payment to the visit it settles.
type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Date    string    `gorm:"type:varchar(10);not null;index" json:"date"`

	ClientID      *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	ClientName    string     `json:"client_name"`
	ServiceID     *uuid.UUID `gorm:"type:uuid;index" json:"service_id"`
	ServiceName   string     `json:"service_name"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Notes  string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// BlockedDate forbids new appointments on Date. Rows are append-only and may repeat.
type BlockedDate struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID uuid.UUID `gorm:"type:uuid;not null;index:idx_blocked_dates_salon_date,priority:1" json:"salon_id"`
	Date    string    `gorm:"type:varchar(10);not null;index:idx_blocked_dates_salon_date,priority:2" json:"date"`
	Reason  string    `json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *BlockedDate) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
