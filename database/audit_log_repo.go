package database

import (
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type AuditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) *AuditLogRepo {
	return &AuditLogRepo{db}
}

// FindAll returns all audit log entries, newest first
func (r *AuditLogRepo) FindAll() ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	err := r.db.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// Add inserts a new audit log entry into the database
func (r *AuditLogRepo) Add(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}
