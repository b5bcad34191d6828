package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FreelancerExperience is a work-history entry on a freelancer's profile.
type FreelancerExperience struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	FreelancerID uuid.UUID  `json:"freelancerId" db:"freelancer_id" gorm:"type:uuid;not null;index"`
	CompanyName  string     `json:"companyName" db:"company_name" gorm:"type:text"`
	RoleTitle    string     `json:"roleTitle" db:"role_title" gorm:"type:text"`
	StartDate    *time.Time `json:"startDate,omitempty" db:"start_date" gorm:"type:date"`
	EndDate      *time.Time `json:"endDate,omitempty" db:"end_date" gorm:"type:date"`
	Description  string     `json:"description" db:"description" gorm:"type:text"`
	ProjectLink  *string    `json:"projectLink,omitempty" db:"project_link" gorm:"type:text"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (e *FreelancerExperience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
