package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a chat row between the parties of a contract. Delivery is handled
// elsewhere; the lifecycle core only owns the rows for cascade purposes.
type Message struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContractID uuid.UUID `json:"contractId" db:"contract_id" gorm:"type:uuid;not null;index"`
	SenderID   uuid.UUID `json:"senderId" db:"sender_id" gorm:"type:uuid;not null"`
	ReceiverID uuid.UUID `json:"receiverId" db:"receiver_id" gorm:"type:uuid;not null"`
	Content    string    `json:"content" db:"content" gorm:"type:text;not null"`
	IsRead     bool      `json:"isRead" db:"is_read" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
