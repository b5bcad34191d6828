package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Database struct {
	db              *gorm.DB
	clientRepo      *ClientRepo
	freelancerRepo  *FreelancerRepo
	adminRepo       *AdminRepo
	taskRepo        *TaskRepo
	applicationRepo *ApplicationRepo
	contractRepo    *ContractRepo
	milestoneRepo   *MilestoneRepo
	paymentRepo     *PaymentRepo
	reviewRepo      *ReviewRepo
	complaintRepo   *ComplaintRepo
	messageRepo     *MessageRepo
	skillRepo       *SkillRepo
	experienceRepo  *ExperienceRepo
	auditLogRepo    *AuditLogRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		clientRepo:      NewClientRepo(db),
		freelancerRepo:  NewFreelancerRepo(db),
		adminRepo:       NewAdminRepo(db),
		taskRepo:        NewTaskRepo(db),
		applicationRepo: NewApplicationRepo(db),
		contractRepo:    NewContractRepo(db),
		milestoneRepo:   NewMilestoneRepo(db),
		paymentRepo:     NewPaymentRepo(db),
		reviewRepo:      NewReviewRepo(db),
		complaintRepo:   NewComplaintRepo(db),
		messageRepo:     NewMessageRepo(db),
		skillRepo:       NewSkillRepo(db),
		experienceRepo:  NewExperienceRepo(db),
		auditLogRepo:    NewAuditLogRepo(db),
	}
}

// Transaction runs fn against a Database whose repositories all share one
// transaction. The multi-row sequences of the lifecycle engine (award,
// milestone rollup, rollback cascades, rating recompute) run through here so
// partial application is never observable.
func (d Database) Transaction(fn func(tx Database) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Accessor methods for each repository

func (d Database) ClientRepo() *ClientRepo           { return d.clientRepo }
func (d Database) FreelancerRepo() *FreelancerRepo   { return d.freelancerRepo }
func (d Database) AdminRepo() *AdminRepo             { return d.adminRepo }
func (d Database) TaskRepo() *TaskRepo               { return d.taskRepo }
func (d Database) ApplicationRepo() *ApplicationRepo { return d.applicationRepo }
func (d Database) ContractRepo() *ContractRepo       { return d.contractRepo }
func (d Database) MilestoneRepo() *MilestoneRepo     { return d.milestoneRepo }
func (d Database) PaymentRepo() *PaymentRepo         { return d.paymentRepo }
func (d Database) ReviewRepo() *ReviewRepo           { return d.reviewRepo }
func (d Database) ComplaintRepo() *ComplaintRepo     { return d.complaintRepo }
func (d Database) MessageRepo() *MessageRepo         { return d.messageRepo }
func (d Database) SkillRepo() *SkillRepo             { return d.skillRepo }
func (d Database) ExperienceRepo() *ExperienceRepo   { return d.experienceRepo }
func (d Database) AuditLogRepo() *AuditLogRepo       { return d.auditLogRepo }

// forUpdate adds a SELECT ... FOR UPDATE row lock on dialects that support it.
// SQLite, used by the test suites, serializes writers on its own and chokes on
// the clause.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
