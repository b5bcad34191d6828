package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type TaskRepo struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepo {
	return &TaskRepo{db}
}

// FindAll returns all tasks from the database
func (r *TaskRepo) FindAll() ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.Find(&tasks).Error
	return tasks, err
}

// FindByStatus returns all tasks in the given status
func (r *TaskRepo) FindByStatus(status models.TaskStatus) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.Where("status = ?", status).Find(&tasks).Error
	return tasks, err
}

// FindByClientID returns all tasks posted by a client
func (r *TaskRepo) FindByClientID(clientID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.Where("client_id = ?", clientID).Find(&tasks).Error
	return tasks, err
}

// FindByID returns a task by its ID
func (r *TaskRepo) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDForUpdate returns a task by its ID holding a row lock for the rest
// of the surrounding transaction. The award and rollback sequences take this
// lock so concurrent check-then-act runs on the same task serialize.
func (r *TaskRepo) FindByIDForUpdate(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := forUpdate(r.db).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Add inserts a new task into the database
func (r *TaskRepo) Add(task *models.Task) error {
	return r.db.Create(task).Error
}

// Update updates an existing task in the database
func (r *TaskRepo) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task from the database by id
func (r *TaskRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}
