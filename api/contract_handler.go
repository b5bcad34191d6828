package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type contractHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	lifecycle *services.Lifecycle
}

func newContractHandler(db database.Database, lifecycle *services.Lifecycle) contractHandler {
	logger := log.With().Str("handlerName", "contractHandler").Logger()

	return contractHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		lifecycle: lifecycle,
	}
}

type contractStatusRequest struct {
	Status      models.ContractStatus `json:"status"`
	CompletedAt *time.Time            `json:"completedAt,omitempty"`
}

// getAllContracts lists the caller's contracts; admins see every contract.
func (h contractHandler) getAllContracts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var contracts []*models.Contract
		switch caller.Role {
		case models.RoleAdmin:
			contracts, err = h.db.ContractRepo().FindAll()
		case models.RoleClient:
			contracts, err = h.db.ContractRepo().FindByClientID(caller.ID)
		case models.RoleFreelancer:
			contracts, err = h.db.ContractRepo().FindByFreelancerID(caller.ID)
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contracts", err))
			return
		}
		h.responder.WriteJSON(w, contracts)
	}
}

func (h contractHandler) getContract() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contractID, err := pathID(r, "contractID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contract, err := h.db.ContractRepo().FindByID(contractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contract", err))
			return
		}
		if caller.Role != models.RoleAdmin && !contract.Party(caller.ID) {
			h.responder.WriteError(w, errs.NewForbidden("not a party to this contract"))
			return
		}
		h.responder.WriteJSON(w, contract)
	}
}

// updateContract sets a contract active or completed. Cancellation goes
// through the delete route so the rollback cascade always runs.
func (h contractHandler) updateContract() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contractID, err := pathID(r, "contractID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req contractStatusRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contract, err := h.lifecycle.UpdateContractStatus(caller, contractID, services.ContractStatusUpdate{
			Status:      req.Status,
			CompletedAt: req.CompletedAt,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, contract)
	}
}

// deleteContract cancels a contract and rolls back everything the award
// created: the task reopens, the winning bid goes back to pending, and every
// dependent row is removed.
func (h contractHandler) deleteContract() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contractID, err := pathID(r, "contractID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.lifecycle.CancelContract(caller, contractID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if caller.Role == models.RoleAdmin {
			entry := models.AuditLog{
				AdminID:     caller.ID,
				Action:      "cancel",
				TargetTable: "contracts",
				TargetID:    contractID,
			}
			if err := h.db.AuditLogRepo().Add(&entry); err != nil {
				h.logger.Error().Err(err).Msg("failed to write audit log entry")
			}
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "contract cancelled",
		})
	}
}

// getContractMilestones lists a contract's milestones in creation order.
func (h contractHandler) getContractMilestones() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contractID, err := pathID(r, "contractID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contract, err := h.db.ContractRepo().FindByID(contractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contract", err))
			return
		}
		if caller.Role != models.RoleAdmin && !contract.Party(caller.ID) {
			h.responder.WriteError(w, errs.NewForbidden("not a party to this contract"))
			return
		}

		milestones, err := h.db.MilestoneRepo().FindByContractID(contractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "milestones", err))
			return
		}
		h.responder.WriteJSON(w, milestones)
	}
}
