package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type applicationHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	lifecycle *services.Lifecycle
	files     *services.FileStore
}

func newApplicationHandler(db database.Database, lifecycle *services.Lifecycle, files *services.FileStore) applicationHandler {
	logger := log.With().Str("handlerName", "applicationHandler").Logger()

	return applicationHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		lifecycle: lifecycle,
		files:     files,
	}
}

type createApplicationRequest struct {
	TaskID        uuid.UUID `json:"taskId"`
	BidAmount     float64   `json:"bidAmount"`
	EstimatedDays int       `json:"estimatedDays"`
	CoverLetter   *string   `json:"coverLetter,omitempty"`
}

// applicationUpdateRequest is the allow-listed patch for a pending bid.
type applicationUpdateRequest struct {
	BidAmount     *float64 `json:"bidAmount,omitempty"`
	EstimatedDays *int     `json:"estimatedDays,omitempty"`
	CoverLetter   *string  `json:"coverLetter,omitempty"`
}

func (h applicationHandler) getApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		applicationID, err := pathID(r, "applicationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		application, err := h.db.ApplicationRepo().FindByID(applicationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "application", err))
			return
		}

		if err := h.authorize(caller, application); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, application)
	}
}

// createApplication submits a bid on an open task.
func (h applicationHandler) createApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createApplicationRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.TaskID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("taskId"))
			return
		}

		application, err := h.lifecycle.SubmitApplication(caller, services.NewApplicationInput{
			TaskID:        req.TaskID,
			BidAmount:     req.BidAmount,
			EstimatedDays: req.EstimatedDays,
			CoverLetter:   req.CoverLetter,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, application)
	}
}

// updateApplication edits a bid while it is still pending. Only the bidding
// freelancer may edit it.
func (h applicationHandler) updateApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		applicationID, err := pathID(r, "applicationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		application, err := h.db.ApplicationRepo().FindByID(applicationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "application", err))
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != application.FreelancerID {
			h.responder.WriteError(w, errs.NewForbidden("not your application"))
			return
		}
		if application.Status != models.ApplicationPending {
			h.responder.WriteError(w, errs.NewConflict("only pending applications can be edited"))
			return
		}

		var req applicationUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if req.BidAmount != nil {
			if *req.BidAmount <= 0 {
				h.responder.WriteError(w, errs.NewValidation("bidAmount", "must be positive"))
				return
			}
			application.BidAmount = *req.BidAmount
		}
		if req.EstimatedDays != nil {
			application.EstimatedDays = *req.EstimatedDays
		}
		if req.CoverLetter != nil {
			application.CoverLetter = req.CoverLetter
		}

		if err := h.db.ApplicationRepo().Update(application); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "application", err))
			return
		}
		h.responder.WriteJSON(w, application)
	}
}

// deleteApplication withdraws a pending bid. Accepted bids are withdrawn by
// cancelling the contract instead.
func (h applicationHandler) deleteApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		applicationID, err := pathID(r, "applicationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		application, err := h.db.ApplicationRepo().FindByID(applicationID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "application", err))
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != application.FreelancerID {
			h.responder.WriteError(w, errs.NewForbidden("not your application"))
			return
		}
		if application.Status == models.ApplicationAccepted {
			h.responder.WriteError(w, errs.NewConflict("accepted applications are withdrawn by cancelling the contract"))
			return
		}

		if err := h.db.ApplicationRepo().Delete(applicationID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "application", err))
			return
		}
		if application.CoverLetter != nil {
			if err := h.files.Remove(*application.CoverLetter); err != nil {
				h.logger.Error().Err(err).Str("file", *application.CoverLetter).Msg("failed to remove cover letter")
			}
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "application withdrawn",
		})
	}
}

// awardApplication accepts a bid and forms the contract for its task.
func (h applicationHandler) awardApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		applicationID, err := pathID(r, "applicationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contract, err := h.lifecycle.AwardContract(caller, applicationID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, contract)
	}
}

// authorize restricts an application read to the bidding freelancer, the
// task's owning client, or an admin.
func (h applicationHandler) authorize(caller services.Caller, application *models.Application) error {
	if caller.Role == models.RoleAdmin || caller.ID == application.FreelancerID {
		return nil
	}
	task, err := h.db.TaskRepo().FindByID(application.TaskID)
	if err != nil {
		return wrapDatabaseError("find", "task", err)
	}
	if caller.ID != task.ClientID {
		return errs.NewForbidden("not your application")
	}
	return nil
}
