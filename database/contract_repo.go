package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type ContractRepo struct {
	db *gorm.DB
}

func NewContractRepo(db *gorm.DB) *ContractRepo {
	return &ContractRepo{db}
}

// FindAll returns all contracts from the database
func (r *ContractRepo) FindAll() ([]*models.Contract, error) {
	var contracts []*models.Contract
	err := r.db.Find(&contracts).Error
	return contracts, err
}

// FindByID returns a contract by its ID
func (r *ContractRepo) FindByID(id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindByIDForUpdate returns a contract by its ID holding a row lock for the
// surrounding transaction, serializing milestone rollups on the same contract.
func (r *ContractRepo) FindByIDForUpdate(id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := forUpdate(r.db).First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindByTaskID returns the contract referencing a task, or nil when the task
// has not been awarded.
func (r *ContractRepo) FindByTaskID(taskID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.First(&contract, "task_id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindByFreelancerID returns every contract a freelancer is party to
func (r *ContractRepo) FindByFreelancerID(freelancerID uuid.UUID) ([]*models.Contract, error) {
	var contracts []*models.Contract
	err := r.db.Where("freelancer_id = ?", freelancerID).Find(&contracts).Error
	return contracts, err
}

// FindByClientID returns every contract a client is party to
func (r *ContractRepo) FindByClientID(clientID uuid.UUID) ([]*models.Contract, error) {
	var contracts []*models.Contract
	err := r.db.Where("client_id = ?", clientID).Find(&contracts).Error
	return contracts, err
}

// ExistsForTask reports whether any contract references the task.
func (r *ContractRepo) ExistsForTask(taskID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Contract{}).Where("task_id = ?", taskID).Count(&count).Error
	return count > 0, err
}

// Add inserts a new contract into the database
func (r *ContractRepo) Add(contract *models.Contract) error {
	return r.db.Create(contract).Error
}

// Update updates an existing contract in the database
func (r *ContractRepo) Update(contract *models.Contract) error {
	return r.db.Save(contract).Error
}

// Delete removes a contract from the database by id
func (r *ContractRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Contract{}, "id = ?", id).Error
}
