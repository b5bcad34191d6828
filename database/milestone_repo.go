package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type MilestoneRepo struct {
	db *gorm.DB
}

func NewMilestoneRepo(db *gorm.DB) *MilestoneRepo {
	return &MilestoneRepo{db}
}

// FindByID returns a milestone by its ID
func (r *MilestoneRepo) FindByID(id uuid.UUID) (*models.Milestone, error) {
	var milestone models.Milestone
	err := r.db.First(&milestone, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

// FindByContractID returns a contract's milestones in creation order
func (r *MilestoneRepo) FindByContractID(contractID uuid.UUID) ([]*models.Milestone, error) {
	var milestones []*models.Milestone
	err := r.db.Where("contract_id = ?", contractID).Order("created_at ASC").Find(&milestones).Error
	return milestones, err
}

// SumWeight returns the total weight of a contract's milestones, excluding the
// one identified by excludeID (uuid.Nil to exclude none). Used to validate
// that weights across a contract stay within 1.
func (r *MilestoneRepo) SumWeight(contractID, excludeID uuid.UUID) (float64, error) {
	var sum *float64
	q := r.db.Model(&models.Milestone{}).Where("contract_id = ?", contractID)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Select("SUM(weight)").Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

// Add inserts a new milestone into the database
func (r *MilestoneRepo) Add(milestone *models.Milestone) error {
	return r.db.Create(milestone).Error
}

// Update updates an existing milestone in the database
func (r *MilestoneRepo) Update(milestone *models.Milestone) error {
	return r.db.Save(milestone).Error
}

// Delete removes a milestone from the database by id
func (r *MilestoneRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Milestone{}, "id = ?", id).Error
}

// DeleteByContractID removes every milestone under a contract
func (r *MilestoneRepo) DeleteByContractID(contractID uuid.UUID) error {
	return r.db.Delete(&models.Milestone{}, "contract_id = ?", contractID).Error
}
