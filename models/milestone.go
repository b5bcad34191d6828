package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Milestone is a weighted sub-deliverable of a contract. Weight is a fraction
// of the contract value in (0,1] and is advisory only: contract completion is
// a pure boolean AND over Completed across the contract's milestones.
type Milestone struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContractID  uuid.UUID  `json:"contractId" db:"contract_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description string     `json:"description" db:"description" gorm:"type:text"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date" gorm:"type:date"`
	Completed   bool       `json:"completed" db:"completed" gorm:"not null;default:false"`
	Weight      float64    `json:"weight" db:"weight" gorm:"type:numeric;not null"`
	FileURL     *string    `json:"fileUrl,omitempty" db:"file_url" gorm:"type:text"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
