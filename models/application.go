package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the lifecycle state of a bid.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a freelancer's bid on a task. CoverLetter holds the opaque
// filename of the uploaded cover letter; the file bytes live with the file
// store, not here.
type Application struct {
	ID            uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	TaskID        uuid.UUID         `json:"taskId" db:"task_id" gorm:"type:uuid;not null;index"`
	FreelancerID  uuid.UUID         `json:"freelancerId" db:"freelancer_id" gorm:"type:uuid;not null;index"`
	CoverLetter   *string           `json:"coverLetter,omitempty" db:"cover_letter" gorm:"type:text"`
	BidAmount     float64           `json:"bidAmount" db:"bid_amount" gorm:"type:numeric;not null"`
	EstimatedDays int               `json:"estimatedDays" db:"estimated_days" gorm:"type:integer"`
	Status        ApplicationStatus `json:"status" db:"status" gorm:"type:text;not null;default:pending"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return nil
}
