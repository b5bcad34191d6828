package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type ExperienceRepo struct {
	db *gorm.DB
}

func NewExperienceRepo(db *gorm.DB) *ExperienceRepo {
	return &ExperienceRepo{db}
}

// FindByFreelancerID returns a freelancer's experience entries, newest first
func (r *ExperienceRepo) FindByFreelancerID(freelancerID uuid.UUID) ([]*models.FreelancerExperience, error) {
	var experiences []*models.FreelancerExperience
	err := r.db.Where("freelancer_id = ?", freelancerID).Order("start_date DESC").Find(&experiences).Error
	return experiences, err
}

// Add inserts a new experience entry into the database
func (r *ExperienceRepo) Add(experience *models.FreelancerExperience) error {
	return r.db.Create(experience).Error
}

// Delete removes an experience entry from the database by id
func (r *ExperienceRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.FreelancerExperience{}, "id = ?", id).Error
}

// DeleteByFreelancerID removes every experience entry owned by a freelancer
func (r *ExperienceRepo) DeleteByFreelancerID(freelancerID uuid.UUID) error {
	return r.db.Delete(&models.FreelancerExperience{}, "freelancer_id = ?", freelancerID).Error
}
