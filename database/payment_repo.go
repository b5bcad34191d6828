package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type PaymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) *PaymentRepo {
	return &PaymentRepo{db}
}

// FindAll returns all payments from the database
func (r *PaymentRepo) FindAll() ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.Find(&payments).Error
	return payments, err
}

// FindByID returns a payment by its ID
func (r *PaymentRepo) FindByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByContractID returns a contract's payments, newest first
func (r *PaymentRepo) FindByContractID(contractID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.Where("contract_id = ?", contractID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// Add inserts a new payment into the database
func (r *PaymentRepo) Add(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update updates an existing payment in the database
func (r *PaymentRepo) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// DeleteByContractID removes every payment under a contract
func (r *PaymentRepo) DeleteByContractID(contractID uuid.UUID) error {
	return r.db.Delete(&models.Payment{}, "contract_id = ?", contractID).Error
}
