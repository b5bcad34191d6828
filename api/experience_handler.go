package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

type experienceHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newExperienceHandler(db database.Database) experienceHandler {
	logger := log.With().Str("handlerName", "experienceHandler").Logger()

	return experienceHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type createExperienceRequest struct {
	CompanyName string     `json:"companyName"`
	RoleTitle   string     `json:"roleTitle"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description"`
	ProjectLink *string    `json:"projectLink,omitempty"`
}

// addExperience appends a work-history entry to a freelancer profile. Only
// the freelancer themselves or an admin.
func (h experienceHandler) addExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		freelancerID, err := pathID(r, "freelancerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != freelancerID {
			h.responder.WriteError(w, errs.NewForbidden("not your profile"))
			return
		}

		var req createExperienceRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.CompanyName == "" {
			h.responder.WriteError(w, errs.NewMissingField("companyName"))
			return
		}

		experience := models.FreelancerExperience{
			FreelancerID: freelancerID,
			CompanyName:  req.CompanyName,
			RoleTitle:    req.RoleTitle,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
			Description:  req.Description,
			ProjectLink:  req.ProjectLink,
		}
		if err := h.db.ExperienceRepo().Add(&experience); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "experience", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, experience)
	}
}

// deleteExperience removes a work-history entry.
func (h experienceHandler) deleteExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		experienceID, err := pathID(r, "experienceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		experiences, err := h.db.ExperienceRepo().FindByFreelancerID(caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "experiences", err))
			return
		}
		owned := false
		for _, experience := range experiences {
			if experience.ID == experienceID {
				owned = true
				break
			}
		}
		if caller.Role != models.RoleAdmin && !owned {
			h.responder.WriteError(w, errs.NewForbidden("not your experience entry"))
			return
		}

		if err := h.db.ExperienceRepo().Delete(experienceID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "experience", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "experience deleted successfully",
		})
	}
}
