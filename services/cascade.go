package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

// This file is the rollback coordinator: the compensating cascades that undo a
// contract's effects on Task/Application and remove dependent rows, plus the
// administrative deletion cascades for freelancers, tasks and clients. Each
// cascade is one transaction; a half-applied rollback is never observable.

// CancelContract rolls a contract back: the matching application returns to
// pending, the task reopens, every dependent row (messages, milestones,
// payments, reviews, complaints) is removed, and the contract row is deleted.
// The freelancer's rating is recomputed since the contract's reviews are gone.
func (s *Lifecycle) CancelContract(caller Caller, contractID uuid.UUID) error {
	err := s.db.Transaction(func(tx database.Database) error {
		contract, err := tx.ContractRepo().FindByID(contractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}
		if err := authorizeContract(caller, contract); err != nil {
			return err
		}

		if err := rollbackContract(tx, contract, true); err != nil {
			return err
		}
		return recomputeFreelancerRating(tx, contract.FreelancerID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("contractId", contractID.String()).Msg("contract cancelled and rolled back")
	return nil
}

// DeleteTask removes a task with its skill links, applications (and their
// cover-letter artifacts), and any contract via the contract cascade.
func (s *Lifecycle) DeleteTask(caller Caller, taskID uuid.UUID) error {
	var coverLetters []string
	err := s.db.Transaction(func(tx database.Database) error {
		task, err := tx.TaskRepo().FindByIDForUpdate(taskID)
		if err != nil {
			return errs.NewDatabaseError("find", "task", err)
		}
		if caller.Role != models.RoleAdmin && !(caller.Role == models.RoleClient && task.ClientID == caller.ID) {
			return errs.NewForbidden("task belongs to another client")
		}
		coverLetters, err = s.cascadeTask(tx, task)
		return err
	})
	if err != nil {
		return err
	}

	s.removeFiles(coverLetters)
	return nil
}

// DeleteFreelancer is the administrative removal of a freelancer account:
// applications, skill links and experiences go first, then every contract the
// freelancer is party to via the contract cascade (reopening its task), then
// the freelancer row.
func (s *Lifecycle) DeleteFreelancer(caller Caller, freelancerID uuid.UUID) error {
	if caller.Role != models.RoleAdmin {
		return errs.NewForbidden("only admins can delete freelancer accounts")
	}

	var coverLetters []string
	err := s.db.Transaction(func(tx database.Database) error {
		if _, err := tx.FreelancerRepo().FindByID(freelancerID); err != nil {
			return errs.NewDatabaseError("find", "freelancer", err)
		}

		applications, err := tx.ApplicationRepo().FindByFreelancerID(freelancerID)
		if err != nil {
			return errs.NewDatabaseError("find", "applications", err)
		}
		for _, a := range applications {
			if a.CoverLetter != nil {
				coverLetters = append(coverLetters, *a.CoverLetter)
			}
		}
		if err := tx.ApplicationRepo().DeleteByFreelancerID(freelancerID); err != nil {
			return errs.NewDatabaseError("delete", "applications", err)
		}
		if err := tx.SkillRepo().DeleteFreelancerSkills(freelancerID); err != nil {
			return errs.NewDatabaseError("delete", "freelancer skills", err)
		}
		if err := tx.ExperienceRepo().DeleteByFreelancerID(freelancerID); err != nil {
			return errs.NewDatabaseError("delete", "freelancer experiences", err)
		}

		contracts, err := tx.ContractRepo().FindByFreelancerID(freelancerID)
		if err != nil {
			return errs.NewDatabaseError("find", "contracts", err)
		}
		for _, contract := range contracts {
			if err := rollbackContract(tx, contract, true); err != nil {
				return err
			}
		}

		if err := tx.FreelancerRepo().Delete(freelancerID); err != nil {
			return errs.NewDatabaseError("delete", "freelancer", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFiles(coverLetters)
	return nil
}

// DeleteClient is the administrative removal of a client account, cascading
// each of the client's tasks the same way DeleteTask does.
func (s *Lifecycle) DeleteClient(caller Caller, clientID uuid.UUID) error {
	if caller.Role != models.RoleAdmin {
		return errs.NewForbidden("only admins can delete client accounts")
	}

	var coverLetters []string
	err := s.db.Transaction(func(tx database.Database) error {
		if _, err := tx.ClientRepo().FindByID(clientID); err != nil {
			return errs.NewDatabaseError("find", "client", err)
		}

		tasks, err := tx.TaskRepo().FindByClientID(clientID)
		if err != nil {
			return errs.NewDatabaseError("find", "tasks", err)
		}
		for _, task := range tasks {
			removed, err := s.cascadeTask(tx, task)
			if err != nil {
				return err
			}
			coverLetters = append(coverLetters, removed...)
		}

		if err := tx.ClientRepo().Delete(clientID); err != nil {
			return errs.NewDatabaseError("delete", "client", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFiles(coverLetters)
	return nil
}

// cascadeTask removes a task's skill links, applications and contract, then
// the task row. It returns the cover-letter filenames whose artifacts should
// be removed once the transaction commits.
func (s *Lifecycle) cascadeTask(tx database.Database, task *models.Task) ([]string, error) {
	if err := tx.SkillRepo().DeleteTaskSkills(task.ID); err != nil {
		return nil, errs.NewDatabaseError("delete", "task skills", err)
	}

	applications, err := tx.ApplicationRepo().FindByTaskID(task.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "applications", err)
	}
	var coverLetters []string
	for _, a := range applications {
		if a.CoverLetter != nil {
			coverLetters = append(coverLetters, *a.CoverLetter)
		}
	}
	if err := tx.ApplicationRepo().DeleteByTaskID(task.ID); err != nil {
		return nil, errs.NewDatabaseError("delete", "applications", err)
	}

	contract, err := tx.ContractRepo().FindByTaskID(task.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "contract", err)
	}
	if contract != nil {
		// the task is going away, so there is nothing to reopen
		if err := rollbackContract(tx, contract, false); err != nil {
			return nil, err
		}
		// the contract's reviews went with it; the freelancer survives
		if err := recomputeFreelancerRating(tx, contract.FreelancerID); err != nil {
			return nil, err
		}
	}

	if err := tx.TaskRepo().Delete(task.ID); err != nil {
		return nil, errs.NewDatabaseError("delete", "task", err)
	}
	return coverLetters, nil
}

// rollbackContract removes every row a contract owns and the contract itself.
// With reopen set, the application that won the contract returns to pending
// and the task returns to open first, undoing the award's side effects.
func rollbackContract(tx database.Database, contract *models.Contract, reopen bool) error {
	if reopen {
		// A missing row means there is nothing to undo; any other failure
		// must abort the transaction before the contract is deleted.
		application, err := tx.ApplicationRepo().FindByTaskAndFreelancer(contract.TaskID, contract.FreelancerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewDatabaseError("find", "application", err)
		}
		if application != nil {
			application.Status = models.ApplicationPending
			if err := tx.ApplicationRepo().Update(application); err != nil {
				return errs.NewDatabaseError("update", "application", err)
			}
		}

		task, err := tx.TaskRepo().FindByIDForUpdate(contract.TaskID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewDatabaseError("find", "task", err)
		}
		if task != nil {
			task.Status = models.TaskOpen
			if err := tx.TaskRepo().Update(task); err != nil {
				return errs.NewDatabaseError("update", "task", err)
			}
		}
	}

	if err := tx.MessageRepo().DeleteByContractID(contract.ID); err != nil {
		return errs.NewDatabaseError("delete", "messages", err)
	}
	if err := tx.MilestoneRepo().DeleteByContractID(contract.ID); err != nil {
		return errs.NewDatabaseError("delete", "milestones", err)
	}
	if err := tx.PaymentRepo().DeleteByContractID(contract.ID); err != nil {
		return errs.NewDatabaseError("delete", "payments", err)
	}
	if err := tx.ReviewRepo().DeleteByContractID(contract.ID); err != nil {
		return errs.NewDatabaseError("delete", "reviews", err)
	}
	if err := tx.ComplaintRepo().DeleteByContractID(contract.ID); err != nil {
		return errs.NewDatabaseError("delete", "complaints", err)
	}
	if err := tx.ContractRepo().Delete(contract.ID); err != nil {
		return errs.NewDatabaseError("delete", "contract", err)
	}
	return nil
}

// removeFiles deletes stored artifacts once the owning rows are gone. Failures
// are logged, not surfaced: the database is already consistent.
func (s *Lifecycle) removeFiles(names []string) {
	if s.files == nil {
		return
	}
	for _, name := range names {
		if err := s.files.Remove(name); err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("failed to remove stored artifact")
		}
	}
}
