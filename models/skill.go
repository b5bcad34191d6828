package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill is a catalog entry freelancers and tasks can be tagged with.
type Skill struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// FreelancerSkill links a freelancer to a skill with proficiency metadata.
type FreelancerSkill struct {
	FreelancerID      uuid.UUID `json:"freelancerId" db:"freelancer_id" gorm:"type:uuid;primaryKey"`
	SkillID           uuid.UUID `json:"skillId" db:"skill_id" gorm:"type:uuid;primaryKey"`
	ProficiencyLevel  string    `json:"proficiencyLevel" db:"proficiency_level" gorm:"type:text"`
	YearsOfExperience int       `json:"yearsOfExperience" db:"years_of_experience" gorm:"type:integer"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

// TaskSkill links a task to a required skill.
type TaskSkill struct {
	TaskID    uuid.UUID `json:"taskId" db:"task_id" gorm:"type:uuid;primaryKey"`
	SkillID   uuid.UUID `json:"skillId" db:"skill_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}
