package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type milestoneHandler struct {
	responder Responder
	logger    zerolog.Logger
	lifecycle *services.Lifecycle
}

func newMilestoneHandler(lifecycle *services.Lifecycle) milestoneHandler {
	logger := log.With().Str("handlerName", "milestoneHandler").Logger()

	return milestoneHandler{
		responder: NewResponder(logger),
		logger:    logger,
		lifecycle: lifecycle,
	}
}

type createMilestoneRequest struct {
	ContractID  uuid.UUID  `json:"contractId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Weight      float64    `json:"weight"`
	FileURL     *string    `json:"fileUrl,omitempty"`
}

type milestoneUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Weight      *float64   `json:"weight,omitempty"`
	FileURL     *string    `json:"fileUrl,omitempty"`
}

func (h milestoneHandler) createMilestone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createMilestoneRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ContractID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("contractId"))
			return
		}

		milestone, err := h.lifecycle.AddMilestone(caller, services.NewMilestoneInput{
			ContractID:  req.ContractID,
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			Weight:      req.Weight,
			FileURL:     req.FileURL,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, milestone)
	}
}

func (h milestoneHandler) updateMilestone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		milestoneID, err := pathID(r, "milestoneID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req milestoneUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		milestone, err := h.lifecycle.UpdateMilestone(caller, milestoneID, services.MilestoneUpdate{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			Completed:   req.Completed,
			Weight:      req.Weight,
			FileURL:     req.FileURL,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, milestone)
	}
}

func (h milestoneHandler) deleteMilestone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		milestoneID, err := pathID(r, "milestoneID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.lifecycle.DeleteMilestone(caller, milestoneID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "milestone deleted successfully",
		})
	}
}
