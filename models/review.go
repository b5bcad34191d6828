package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a 1-5 rating one party of a contract leaves for the other. The
// composite unique index enforces at most one review per (contract, reviewer).
type Review struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContractID uuid.UUID `json:"contractId" db:"contract_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_reviews_contract_reviewer"`
	ReviewerID uuid.UUID `json:"reviewerId" db:"reviewer_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_contract_reviewer"`
	RevieweeID uuid.UUID `json:"revieweeId" db:"reviewee_id" gorm:"type:uuid;not null;index"`
	Rating     int       `json:"rating" db:"rating" gorm:"not null"`
	Comment    *string   `json:"comment,omitempty" db:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
