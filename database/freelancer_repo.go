package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type FreelancerRepo struct {
	db *gorm.DB
}

func NewFreelancerRepo(db *gorm.DB) *FreelancerRepo {
	return &FreelancerRepo{db}
}

// FindAll returns all freelancers from the database
func (r *FreelancerRepo) FindAll() ([]*models.Freelancer, error) {
	var freelancers []*models.Freelancer
	err := r.db.Find(&freelancers).Error
	return freelancers, err
}

// FindByID returns a freelancer by its ID
func (r *FreelancerRepo) FindByID(id uuid.UUID) (*models.Freelancer, error) {
	var freelancer models.Freelancer
	err := r.db.First(&freelancer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &freelancer, nil
}

// FindByIDForUpdate returns a freelancer by its ID holding a row lock for the
// surrounding transaction. The rating aggregator takes this lock so two
// concurrent reviews for the same freelancer cannot lose an update.
func (r *FreelancerRepo) FindByIDForUpdate(id uuid.UUID) (*models.Freelancer, error) {
	var freelancer models.Freelancer
	err := forUpdate(r.db).First(&freelancer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &freelancer, nil
}

// FindByEmail returns the freelancer registered under an email, or nil when
// the address is unknown
func (r *FreelancerRepo) FindByEmail(email string) (*models.Freelancer, error) {
	var freelancer models.Freelancer
	err := r.db.First(&freelancer, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &freelancer, nil
}

// Add inserts a new freelancer into the database
func (r *FreelancerRepo) Add(freelancer *models.Freelancer) error {
	return r.db.Create(freelancer).Error
}

// Update updates an existing freelancer in the database
func (r *FreelancerRepo) Update(freelancer *models.Freelancer) error {
	return r.db.Save(freelancer).Error
}

// Delete removes a freelancer from the database by id
func (r *FreelancerRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Freelancer{}, "id = ?", id).Error
}
