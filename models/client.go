package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is an account that posts tasks and awards contracts.
type Client struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name         string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Image        *string   `json:"image,omitempty" db:"image" gorm:"type:text"`
	Bio          *string   `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	Contact      *string   `json:"contact,omitempty" db:"contact" gorm:"type:text"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:ClientID;references:ID"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
