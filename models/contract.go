package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
)

// Contract is the binding agreement formed when a client accepts one
// application for a task. The unique index on TaskID is what makes a second
// award for the same task fail at the database as well as in the engine.
// The contract owns its milestones, payments, reviews, complaints and
// messages; the rollback coordinator removes them all together.
type Contract struct {
	ID           uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ContractCode string         `json:"contractCode" db:"contract_code" gorm:"type:text;not null;uniqueIndex"`
	TaskID       uuid.UUID      `json:"taskId" db:"task_id" gorm:"type:uuid;not null;uniqueIndex"`
	ClientID     uuid.UUID      `json:"clientId" db:"client_id" gorm:"type:uuid;not null;index"`
	FreelancerID uuid.UUID      `json:"freelancerId" db:"freelancer_id" gorm:"type:uuid;not null;index"`
	AgreedAmount float64        `json:"agreedAmount" db:"agreed_amount" gorm:"type:numeric;not null"`
	StartedAt    *time.Time     `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty" db:"completed_at"`
	Status       ContractStatus `json:"status" db:"status" gorm:"type:text;not null;default:active"`

	Milestones []Milestone `json:"milestones,omitempty" gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
	Payments   []Payment   `json:"payments,omitempty" gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
	Reviews    []Review    `json:"reviews,omitempty" gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
	Complaints []Complaint `json:"complaints,omitempty" gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
	Messages   []Message   `json:"messages,omitempty" gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContractActive
	}
	return nil
}

// Party reports whether the given account is the client or freelancer side of
// the contract.
func (c *Contract) Party(id uuid.UUID) bool {
	return c.ClientID == id || c.FreelancerID == id
}

// Counterparty returns the other side of the contract relative to id. The
// second return is false when id is not a party at all.
func (c *Contract) Counterparty(id uuid.UUID) (uuid.UUID, bool) {
	switch id {
	case c.ClientID:
		return c.FreelancerID, true
	case c.FreelancerID:
		return c.ClientID, true
	}
	return uuid.Nil, false
}
