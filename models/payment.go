package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment records money moving between the parties of a contract.
type Payment struct {
	ID         uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContractID uuid.UUID     `json:"contractId" db:"contract_id" gorm:"type:uuid;not null;index"`
	PayerID    uuid.UUID     `json:"payerId" db:"payer_id" gorm:"type:uuid;not null"`
	PayeeID    uuid.UUID     `json:"payeeId" db:"payee_id" gorm:"type:uuid;not null"`
	Amount     float64       `json:"amount" db:"amount" gorm:"type:numeric;not null"`
	Method     string        `json:"method" db:"method" gorm:"type:text"`
	Status     PaymentStatus `json:"status" db:"status" gorm:"type:text;not null;default:pending"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
	return nil
}
