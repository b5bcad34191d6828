package database

import (
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

// SkillRepo covers the skill catalog plus the freelancer-skill and task-skill
// link rows, which only ever move together with it.
type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindAll returns all skills from the database
func (r *SkillRepo) FindAll() ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.Order("name ASC").Find(&skills).Error
	return skills, err
}

// FindByID returns a skill by its ID
func (r *SkillRepo) FindByID(id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.First(&skill, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// Add inserts a new skill into the database
func (r *SkillRepo) Add(skill *models.Skill) error {
	return r.db.Create(skill).Error
}

// AddFreelancerSkill links a freelancer to a skill
func (r *SkillRepo) AddFreelancerSkill(link *models.FreelancerSkill) error {
	return r.db.Create(link).Error
}

// AddTaskSkill links a task to a skill
func (r *SkillRepo) AddTaskSkill(link *models.TaskSkill) error {
	return r.db.Create(link).Error
}

// FindFreelancerSkills returns a freelancer's skill links
func (r *SkillRepo) FindFreelancerSkills(freelancerID uuid.UUID) ([]*models.FreelancerSkill, error) {
	var links []*models.FreelancerSkill
	err := r.db.Where("freelancer_id = ?", freelancerID).Find(&links).Error
	return links, err
}

// DeleteFreelancerSkills removes every skill link owned by a freelancer
func (r *SkillRepo) DeleteFreelancerSkills(freelancerID uuid.UUID) error {
	return r.db.Delete(&models.FreelancerSkill{}, "freelancer_id = ?", freelancerID).Error
}

// DeleteTaskSkills removes every skill link owned by a task
func (r *SkillRepo) DeleteTaskSkills(taskID uuid.UUID) error {
	return r.db.Delete(&models.TaskSkill{}, "task_id = ?", taskID).Error
}
