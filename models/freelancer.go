package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Freelancer is an account that bids on tasks and fulfils contracts.
// Ratings is the arithmetic mean of every review naming the freelancer as
// reviewee; nil until the first review lands.
type Freelancer struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name         string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Bio          *string   `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	Image        *string   `json:"image,omitempty" db:"image" gorm:"type:text"`
	Contact      *string   `json:"contact,omitempty" db:"contact" gorm:"type:text"`
	Ratings      *float64  `json:"ratings,omitempty" db:"ratings" gorm:"type:float"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"not null"`

	Applications []Application          `json:"applications,omitempty" gorm:"foreignKey:FreelancerID;references:ID"`
	Skills       []FreelancerSkill      `json:"skills,omitempty" gorm:"foreignKey:FreelancerID;references:ID;constraint:OnDelete:CASCADE"`
	Experiences  []FreelancerExperience `json:"experiences,omitempty" gorm:"foreignKey:FreelancerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (f *Freelancer) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
