package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type ClientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) *ClientRepo {
	return &ClientRepo{db}
}

// FindAll returns all clients from the database
func (r *ClientRepo) FindAll() ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.Find(&clients).Error
	return clients, err
}

// FindByID returns a client by its ID
func (r *ClientRepo) FindByID(id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// FindByEmail returns the client registered under an email, or nil when the
// address is unknown
func (r *ClientRepo) FindByEmail(email string) (*models.Client, error) {
	var client models.Client
	err := r.db.First(&client, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Add inserts a new client into the database
func (r *ClientRepo) Add(client *models.Client) error {
	return r.db.Create(client).Error
}

// Update updates an existing client in the database
func (r *ClientRepo) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete removes a client from the database by id
func (r *ClientRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Client{}, "id = ?", id).Error
}
