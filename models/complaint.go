package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	ComplaintOpen     ComplaintStatus = "open"
	ComplaintResolved ComplaintStatus = "resolved"
	ComplaintClosed   ComplaintStatus = "closed"
)

// Complaint is a dispute raised by one party of a contract against the other,
// optionally assigned to an admin for resolution.
type Complaint struct {
	ID              uuid.UUID       `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContractID      uuid.UUID       `json:"contractId" db:"contract_id" gorm:"type:uuid;not null;index"`
	ComplainantID   uuid.UUID       `json:"complainantId" db:"complainant_id" gorm:"type:uuid;not null"`
	RespondentID    uuid.UUID       `json:"respondentId" db:"respondent_id" gorm:"type:uuid;not null"`
	ComplainantType Role            `json:"complainantType" db:"complainant_type" gorm:"type:text;not null"`
	Description     string          `json:"description" db:"description" gorm:"type:text;not null"`
	Status          ComplaintStatus `json:"status" db:"status" gorm:"type:text;not null;default:open"`
	Resolution      *string         `json:"resolution,omitempty" db:"resolution" gorm:"type:text"`
	AdminID         *uuid.UUID      `json:"adminId,omitempty" db:"admin_id" gorm:"type:uuid"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at" gorm:"not null"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty" db:"resolved_at"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ComplaintOpen
	}
	return nil
}
