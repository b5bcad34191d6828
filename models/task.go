package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the lifecycle state of a posted task.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Task is a unit of work posted by a client, open for bids until contracted.
// Status is mutated only by the lifecycle engine: it moves to in_progress when
// a contract is awarded and back to open when that contract is rolled back.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ClientID    uuid.UUID  `json:"clientId" db:"client_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description string     `json:"description" db:"description" gorm:"type:text"`
	BudgetMin   float64    `json:"budgetMin" db:"budget_min" gorm:"type:numeric"`
	BudgetMax   float64    `json:"budgetMax" db:"budget_max" gorm:"type:numeric"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline" gorm:"type:date"`
	Status      TaskStatus `json:"status" db:"status" gorm:"type:text;not null;default:open"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`

	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
	Skills       []TaskSkill   `json:"skills,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskOpen
	}
	return nil
}
