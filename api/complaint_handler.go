package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

type complaintHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newComplaintHandler(db database.Database) complaintHandler {
	logger := log.With().Str("handlerName", "complaintHandler").Logger()

	return complaintHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type createComplaintRequest struct {
	ContractID  uuid.UUID `json:"contractId"`
	Description string    `json:"description"`
}

type resolveComplaintRequest struct {
	Status     models.ComplaintStatus `json:"status"`
	Resolution *string                `json:"resolution,omitempty"`
}

// getAllComplaints lists every complaint. Admin only.
func (h complaintHandler) getAllComplaints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if caller.Role != models.RoleAdmin {
			h.responder.WriteError(w, errs.NewForbidden("admin only"))
			return
		}

		complaints, err := h.db.ComplaintRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "complaints", err))
			return
		}
		h.responder.WriteJSON(w, complaints)
	}
}

// createComplaint raises a dispute against the counterparty of a contract.
func (h complaintHandler) createComplaint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createComplaintRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ContractID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("contractId"))
			return
		}
		if req.Description == "" {
			h.responder.WriteError(w, errs.NewMissingField("description"))
			return
		}

		contract, err := h.db.ContractRepo().FindByID(req.ContractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contract", err))
			return
		}
		respondent, ok := contract.Counterparty(caller.ID)
		if !ok {
			h.responder.WriteError(w, errs.NewForbidden("not a party to this contract"))
			return
		}

		complaint := models.Complaint{
			ContractID:      contract.ID,
			ComplainantID:   caller.ID,
			RespondentID:    respondent,
			ComplainantType: caller.Role,
			Description:     req.Description,
		}
		if err := h.db.ComplaintRepo().Add(&complaint); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "complaint", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, complaint)
	}
}

// resolveComplaint closes out a dispute. Admin only; the resolution is
// audit-logged.
func (h complaintHandler) resolveComplaint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if caller.Role != models.RoleAdmin {
			h.responder.WriteError(w, errs.NewForbidden("admin only"))
			return
		}
		complaintID, err := pathID(r, "complaintID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req resolveComplaintRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		switch req.Status {
		case models.ComplaintOpen, models.ComplaintResolved, models.ComplaintClosed:
		default:
			h.responder.WriteError(w, errs.NewValidation("status", "unknown complaint status"))
			return
		}

		complaint, err := h.db.ComplaintRepo().FindByID(complaintID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "complaint", err))
			return
		}

		complaint.Status = req.Status
		complaint.AdminID = &caller.ID
		if req.Resolution != nil {
			complaint.Resolution = req.Resolution
		}
		if req.Status != models.ComplaintOpen && complaint.ResolvedAt == nil {
			now := time.Now()
			complaint.ResolvedAt = &now
		}

		if err := h.db.ComplaintRepo().Update(complaint); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "complaint", err))
			return
		}

		entry := models.AuditLog{
			AdminID:     caller.ID,
			Action:      "resolve",
			TargetTable: "complaints",
			TargetID:    complaint.ID,
			Meta:        req.Resolution,
		}
		if err := h.db.AuditLogRepo().Add(&entry); err != nil {
			h.logger.Error().Err(err).Msg("failed to write audit log entry")
		}

		h.responder.WriteJSON(w, complaint)
	}
}
