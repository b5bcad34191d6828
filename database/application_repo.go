package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type ApplicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{db}
}

// FindAll returns all applications from the database
func (r *ApplicationRepo) FindAll() ([]*models.Application, error) {
	var applications []*models.Application
	err := r.db.Find(&applications).Error
	return applications, err
}

// FindByID returns an application by its ID
func (r *ApplicationRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := r.db.First(&application, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// FindByTaskID returns all bids on a task, newest first
func (r *ApplicationRepo) FindByTaskID(taskID uuid.UUID) ([]*models.Application, error) {
	var applications []*models.Application
	err := r.db.Where("task_id = ?", taskID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

// FindByFreelancerID returns all bids placed by a freelancer
func (r *ApplicationRepo) FindByFreelancerID(freelancerID uuid.UUID) ([]*models.Application, error) {
	var applications []*models.Application
	err := r.db.Where("freelancer_id = ?", freelancerID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

// FindByTaskAndFreelancer returns the bid a freelancer placed on a task, or
// gorm.ErrRecordNotFound when none exists. The rollback coordinator uses this
// to undo an "accepted" status.
func (r *ApplicationRepo) FindByTaskAndFreelancer(taskID, freelancerID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := r.db.First(&application, "task_id = ? AND freelancer_id = ?", taskID, freelancerID).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// RejectOthers marks every bid on the task other than winnerID as rejected.
func (r *ApplicationRepo) RejectOthers(taskID, winnerID uuid.UUID) error {
	return r.db.Model(&models.Application{}).
		Where("task_id = ? AND id <> ?", taskID, winnerID).
		Update("status", models.ApplicationRejected).Error
}

// Add inserts a new application into the database
func (r *ApplicationRepo) Add(application *models.Application) error {
	return r.db.Create(application).Error
}

// Update updates an existing application in the database
func (r *ApplicationRepo) Update(application *models.Application) error {
	return r.db.Save(application).Error
}

// Delete removes an application from the database by id
func (r *ApplicationRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Application{}, "id = ?", id).Error
}

// DeleteByTaskID removes every application on a task
func (r *ApplicationRepo) DeleteByTaskID(taskID uuid.UUID) error {
	return r.db.Delete(&models.Application{}, "task_id = ?", taskID).Error
}

// DeleteByFreelancerID removes every application placed by a freelancer
func (r *ApplicationRepo) DeleteByFreelancerID(freelancerID uuid.UUID) error {
	return r.db.Delete(&models.Application{}, "freelancer_id = ?", freelancerID).Error
}
