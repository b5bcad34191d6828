package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type ComplaintRepo struct {
	db *gorm.DB
}

func NewComplaintRepo(db *gorm.DB) *ComplaintRepo {
	return &ComplaintRepo{db}
}

// FindAll returns all complaints from the database
func (r *ComplaintRepo) FindAll() ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	err := r.db.Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

// FindByID returns a complaint by its ID
func (r *ComplaintRepo) FindByID(id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FindByContractID returns a contract's complaints
func (r *ComplaintRepo) FindByContractID(contractID uuid.UUID) ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	err := r.db.Where("contract_id = ?", contractID).Find(&complaints).Error
	return complaints, err
}

// Add inserts a new complaint into the database
func (r *ComplaintRepo) Add(complaint *models.Complaint) error {
	return r.db.Create(complaint).Error
}

// Update updates an existing complaint in the database
func (r *ComplaintRepo) Update(complaint *models.Complaint) error {
	return r.db.Save(complaint).Error
}

// DeleteByContractID removes every complaint under a contract
func (r *ComplaintRepo) DeleteByContractID(contractID uuid.UUID) error {
	return r.db.Delete(&models.Complaint{}, "contract_id = ?", contractID).Error
}
