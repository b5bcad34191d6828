package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

// FindByID returns a message by its ID
func (r *MessageRepo) FindByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FindByContractID returns a contract's messages in send order
func (r *MessageRepo) FindByContractID(contractID uuid.UUID) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.Where("contract_id = ?", contractID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// Add inserts a new message into the database
func (r *MessageRepo) Add(message *models.Message) error {
	return r.db.Create(message).Error
}

// Update updates an existing message in the database
func (r *MessageRepo) Update(message *models.Message) error {
	return r.db.Save(message).Error
}

// DeleteByContractID removes every message under a contract
func (r *MessageRepo) DeleteByContractID(contractID uuid.UUID) error {
	return r.db.Delete(&models.Message{}, "contract_id = ?", contractID).Error
}
