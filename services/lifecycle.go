package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive-backend/config"
	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

// Caller is the authenticated identity a lifecycle operation runs as. It is
// threaded explicitly into every operation; there is no ambient session state.
type Caller struct {
	ID   uuid.UUID
	Role models.Role
}

// LifecycleConfig holds the behavior toggles of the engine.
type LifecycleConfig struct {
	// RejectLosingBids marks every non-winning application on a task as
	// rejected inside the award transaction. Off by default: losers stay
	// pending.
	RejectLosingBids bool
}

// LifecycleConfigFromEnv reads the toggles from the process environment map.
func LifecycleConfigFromEnv(c map[string]string) LifecycleConfig {
	return LifecycleConfig{
		RejectLosingBids: config.GetBool(c, "REJECT_LOSING_BIDS", false),
	}
}

// Lifecycle is the contract lifecycle engine: it owns every status transition
// across Task, Application, Contract and Milestone, and the rollback cascades
// that undo them. All multi-row sequences run inside one database transaction
// with the task or contract row locked.
type Lifecycle struct {
	db     database.Database
	files  *FileStore
	cfg    LifecycleConfig
	logger zerolog.Logger
}

func NewLifecycle(db database.Database, files *FileStore, cfg LifecycleConfig) *Lifecycle {
	logger := log.With().Str("service", "lifecycle").Logger()

	return &Lifecycle{
		db:     db,
		files:  files,
		cfg:    cfg,
		logger: logger,
	}
}

// NewApplicationInput is the allow-listed payload for submitting a bid.
type NewApplicationInput struct {
	TaskID        uuid.UUID
	BidAmount     float64
	EstimatedDays int
	CoverLetter   *string
}

// SubmitApplication records a freelancer's bid on an open task.
func (s *Lifecycle) SubmitApplication(caller Caller, in NewApplicationInput) (*models.Application, error) {
	if caller.Role != models.RoleFreelancer {
		return nil, errs.NewForbidden("only freelancers can apply to tasks")
	}
	if in.BidAmount <= 0 {
		return nil, errs.NewValidation("bidAmount", "must be greater than zero")
	}

	var application *models.Application
	err := s.db.Transaction(func(tx database.Database) error {
		task, err := tx.TaskRepo().FindByIDForUpdate(in.TaskID)
		if err != nil {
			return errs.NewDatabaseError("find", "task", err)
		}
		if task.Status != models.TaskOpen {
			return errs.NewConflict("task is not open for applications")
		}

		existing, err := tx.ApplicationRepo().FindByTaskAndFreelancer(task.ID, caller.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewDatabaseError("find", "application", err)
		}
		if existing != nil {
			return errs.NewConflict("you have already applied to this task")
		}

		application = &models.Application{
			TaskID:        task.ID,
			FreelancerID:  caller.ID,
			CoverLetter:   in.CoverLetter,
			BidAmount:     in.BidAmount,
			EstimatedDays: in.EstimatedDays,
			Status:        models.ApplicationPending,
		}
		if err := tx.ApplicationRepo().Add(application); err != nil {
			return errs.NewDatabaseError("create", "application", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// AwardContract accepts one application on a task: it creates the contract,
// moves the task to in_progress and the winning application to accepted, all
// in one transaction holding the task row. A task that already has a contract
// fails with Conflict and nothing is mutated.
func (s *Lifecycle) AwardContract(caller Caller, applicationID uuid.UUID) (*models.Contract, error) {
	if caller.Role != models.RoleClient && caller.Role != models.RoleAdmin {
		return nil, errs.NewForbidden("only the task's client can award a contract")
	}

	var contract *models.Contract
	err := s.db.Transaction(func(tx database.Database) error {
		application, err := tx.ApplicationRepo().FindByID(applicationID)
		if err != nil {
			return errs.NewDatabaseError("find", "application", err)
		}

		task, err := tx.TaskRepo().FindByIDForUpdate(application.TaskID)
		if err != nil {
			return errs.NewDatabaseError("find", "task", err)
		}
		if caller.Role == models.RoleClient && task.ClientID != caller.ID {
			return errs.NewForbidden("task belongs to another client")
		}

		exists, err := tx.ContractRepo().ExistsForTask(task.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}
		if exists {
			return errs.NewConflict("task already has a contract")
		}

		now := time.Now().UTC()
		contract = &models.Contract{
			ContractCode: newContractCode(),
			TaskID:       task.ID,
			ClientID:     task.ClientID,
			FreelancerID: application.FreelancerID,
			AgreedAmount: application.BidAmount,
			StartedAt:    &now,
			Status:       models.ContractActive,
		}
		if err := tx.ContractRepo().Add(contract); err != nil {
			// the unique index on task_id catches a racing award that
			// slipped past the existence check
			return errs.NewDatabaseError("create", "contract", err)
		}

		task.Status = models.TaskInProgress
		if err := tx.TaskRepo().Update(task); err != nil {
			return errs.NewDatabaseError("update", "task", err)
		}

		application.Status = models.ApplicationAccepted
		if err := tx.ApplicationRepo().Update(application); err != nil {
			return errs.NewDatabaseError("update", "application", err)
		}

		if s.cfg.RejectLosingBids {
			if err := tx.ApplicationRepo().RejectOthers(task.ID, application.ID); err != nil {
				return errs.NewDatabaseError("update", "applications", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("contractCode", contract.ContractCode).
		Str("taskId", contract.TaskID.String()).
		Str("freelancerId", contract.FreelancerID.String()).
		Msg("contract awarded")
	return contract, nil
}

// NewMilestoneInput is the allow-listed payload for adding a milestone.
type NewMilestoneInput struct {
	ContractID  uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Weight      float64
	FileURL     *string
}

// AddMilestone creates a milestone under a contract and re-evaluates the
// contract's completion rollup.
func (s *Lifecycle) AddMilestone(caller Caller, in NewMilestoneInput) (*models.Milestone, error) {
	if in.Title == "" {
		return nil, errs.NewMissingField("title")
	}

	var milestone *models.Milestone
	err := s.db.Transaction(func(tx database.Database) error {
		contract, err := tx.ContractRepo().FindByIDForUpdate(in.ContractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}
		if err := authorizeContract(caller, contract); err != nil {
			return err
		}
		if err := validateWeight(tx, contract.ID, uuid.Nil, in.Weight); err != nil {
			return err
		}

		milestone = &models.Milestone{
			ContractID:  contract.ID,
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			Weight:      in.Weight,
			FileURL:     in.FileURL,
		}
		if err := tx.MilestoneRepo().Add(milestone); err != nil {
			return errs.NewDatabaseError("create", "milestone", err)
		}
		return recheckCompletion(tx, contract)
	})
	if err != nil {
		return nil, err
	}
	return milestone, nil
}

// MilestoneUpdate is the allow-listed patch for editing a milestone. IDs and
// the owning contract are not patchable.
type MilestoneUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
	Weight      *float64
	FileURL     *string
}

// UpdateMilestone applies an allow-listed edit and re-evaluates the contract's
// completion rollup. Completing the last open milestone completes the
// contract; un-completing a milestone never reverts a completed contract.
func (s *Lifecycle) UpdateMilestone(caller Caller, milestoneID uuid.UUID, upd MilestoneUpdate) (*models.Milestone, error) {
	var milestone *models.Milestone
	err := s.db.Transaction(func(tx database.Database) error {
		var err error
		milestone, err = tx.MilestoneRepo().FindByID(milestoneID)
		if err != nil {
			return errs.NewDatabaseError("find", "milestone", err)
		}

		contract, err := tx.ContractRepo().FindByIDForUpdate(milestone.ContractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}
		if err := authorizeContract(caller, contract); err != nil {
			return err
		}

		if upd.Title != nil {
			if *upd.Title == "" {
				return errs.NewMissingField("title")
			}
			milestone.Title = *upd.Title
		}
		if upd.Description != nil {
			milestone.Description = *upd.Description
		}
		if upd.DueDate != nil {
			milestone.DueDate = upd.DueDate
		}
		if upd.Weight != nil {
			if err := validateWeight(tx, contract.ID, milestone.ID, *upd.Weight); err != nil {
				return err
			}
			milestone.Weight = *upd.Weight
		}
		if upd.FileURL != nil {
			milestone.FileURL = upd.FileURL
		}
		if upd.Completed != nil {
			milestone.Completed = *upd.Completed
		}

		if err := tx.MilestoneRepo().Update(milestone); err != nil {
			return errs.NewDatabaseError("update", "milestone", err)
		}
		return recheckCompletion(tx, contract)
	})
	if err != nil {
		return nil, err
	}
	return milestone, nil
}

// DeleteMilestone removes a milestone and re-evaluates the rollup: deleting
// the last incomplete milestone completes the contract.
func (s *Lifecycle) DeleteMilestone(caller Caller, milestoneID uuid.UUID) error {
	return s.db.Transaction(func(tx database.Database) error {
		milestone, err := tx.MilestoneRepo().FindByID(milestoneID)
		if err != nil {
			return errs.NewDatabaseError("find", "milestone", err)
		}

		contract, err := tx.ContractRepo().FindByIDForUpdate(milestone.ContractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}
		if err := authorizeContract(caller, contract); err != nil {
			return err
		}

		if err := tx.MilestoneRepo().Delete(milestone.ID); err != nil {
			return errs.NewDatabaseError("delete", "milestone", err)
		}
		return recheckCompletion(tx, contract)
	})
}

// ContractStatusUpdate is the allow-listed patch for an explicit status edit.
type ContractStatusUpdate struct {
	Status      models.ContractStatus
	CompletedAt *time.Time
}

// UpdateContractStatus is the explicit admin/client escape hatch for setting a
// contract active or completed. Cancellation goes through CancelContract so
// the rollback cascade always runs.
func (s *Lifecycle) UpdateContractStatus(caller Caller, contractID uuid.UUID, upd ContractStatusUpdate) (*models.Contract, error) {
	if upd.Status != models.ContractActive && upd.Status != models.ContractCompleted {
		return nil, errs.NewValidation("status", "must be active or completed; cancel via the delete operation")
	}

	var contract *models.Contract
	err := s.db.Transaction(func(tx database.Database) error {
		var err error
		contract, err = tx.ContractRepo().FindByIDForUpdate(contractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}
		if caller.Role != models.RoleAdmin && !(caller.Role == models.RoleClient && contract.ClientID == caller.ID) {
			return errs.NewForbidden("only the contract's client or an admin can edit its status")
		}

		contract.Status = upd.Status
		switch upd.Status {
		case models.ContractCompleted:
			if upd.CompletedAt != nil {
				contract.CompletedAt = upd.CompletedAt
			} else if contract.CompletedAt == nil {
				now := time.Now().UTC()
				contract.CompletedAt = &now
			}
		case models.ContractActive:
			contract.CompletedAt = nil
		}

		if err := tx.ContractRepo().Update(contract); err != nil {
			return errs.NewDatabaseError("update", "contract", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// authorizeContract rejects callers that are neither an admin nor a party on
// the contract. Errors surface as Forbidden before any write happens.
func authorizeContract(caller Caller, contract *models.Contract) error {
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if !contract.Party(caller.ID) {
		return errs.NewForbidden("contract belongs to other parties")
	}
	return nil
}

// validateWeight checks a single milestone weight and the per-contract sum.
// Weights stay advisory for completion, but a weight outside (0,1] or a sum
// above 1 is rejected at write time.
func validateWeight(tx database.Database, contractID, excludeID uuid.UUID, weight float64) error {
	if weight <= 0 || weight > 1 {
		return errs.NewValidation("weight", "must be in (0, 1]")
	}
	sum, err := tx.MilestoneRepo().SumWeight(contractID, excludeID)
	if err != nil {
		return errs.NewDatabaseError("sum weights of", "milestones", err)
	}
	const epsilon = 1e-9
	if sum+weight > 1+epsilon {
		return errs.NewValidation("weight", "milestone weights for a contract cannot exceed 1")
	}
	return nil
}

// recheckCompletion runs after every milestone mutation: a contract with at
// least one milestone, all completed, moves to completed. The rollup is
// one-way and idempotent; a contract that is already completed (or cancelled)
// is left alone, and a contract with zero milestones never auto-completes.
func recheckCompletion(tx database.Database, contract *models.Contract) error {
	if contract.Status != models.ContractActive {
		return nil
	}

	milestones, err := tx.MilestoneRepo().FindByContractID(contract.ID)
	if err != nil {
		return errs.NewDatabaseError("find", "milestones", err)
	}
	if len(milestones) == 0 {
		return nil
	}
	for _, m := range milestones {
		if !m.Completed {
			return nil
		}
	}

	now := time.Now().UTC()
	contract.Status = models.ContractCompleted
	if contract.CompletedAt == nil {
		contract.CompletedAt = &now
	}
	if err := tx.ContractRepo().Update(contract); err != nil {
		return errs.NewDatabaseError("update", "contract", err)
	}
	return nil
}

// newContractCode mints a short human-readable contract label.
func newContractCode() string {
	return "CT-" + strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
}
