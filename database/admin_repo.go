package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type AdminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db}
}

// FindByID returns an admin by its ID
func (r *AdminRepo) FindByID(id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByEmail returns the admin registered under an email, or nil when the
// address is unknown
func (r *AdminRepo) FindByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Add inserts a new admin into the database
func (r *AdminRepo) Add(admin *models.Admin) error {
	return r.db.Create(admin).Error
}
