package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records an admin-initiated mutation for later inspection.
type AuditLog struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	AdminID     uuid.UUID `json:"adminId" db:"admin_id" gorm:"type:uuid;not null;index"`
	Action      string    `json:"action" db:"action" gorm:"type:text;not null"`
	TargetTable string    `json:"targetTable" db:"target_table" gorm:"type:text"`
	TargetID    uuid.UUID `json:"targetId" db:"target_id" gorm:"type:uuid"`
	Meta        *string   `json:"meta,omitempty" db:"meta" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
