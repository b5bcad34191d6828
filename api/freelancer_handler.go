package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type freelancerHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	lifecycle *services.Lifecycle
}

func newFreelancerHandler(db database.Database, lifecycle *services.Lifecycle) freelancerHandler {
	logger := log.With().Str("handlerName", "freelancerHandler").Logger()

	return freelancerHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		lifecycle: lifecycle,
	}
}

type registerFreelancerRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Bio      *string `json:"bio,omitempty"`
	Contact  *string `json:"contact,omitempty"`
}

// freelancerUpdateRequest is the allow-listed patch for a freelancer profile.
// Ratings is excluded: it is owned by the rating aggregator.
type freelancerUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Bio     *string `json:"bio,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Image   *string `json:"image,omitempty"`
}

// FreelancerProfile is a freelancer together with skill links and experiences.
type FreelancerProfile struct {
	Freelancer  models.Freelancer              `json:"freelancer"`
	Skills      []*models.FreelancerSkill      `json:"skills"`
	Experiences []*models.FreelancerExperience `json:"experiences"`
}

func (h freelancerHandler) getAllFreelancers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		freelancers, err := h.db.FreelancerRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "freelancers", err))
			return
		}
		h.responder.WriteJSON(w, freelancers)
	}
}

func (h freelancerHandler) getFreelancer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		freelancerID, err := pathID(r, "freelancerID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		freelancer, err := h.db.FreelancerRepo().FindByID(freelancerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "freelancer", err))
			return
		}
		skills, err := h.db.SkillRepo().FindFreelancerSkills(freelancerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "freelancer skills", err))
			return
		}
		experiences, err := h.db.ExperienceRepo().FindByFreelancerID(freelancerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "freelancer experiences", err))
			return
		}

		h.responder.WriteJSON(w, FreelancerProfile{
			Freelancer:  *freelancer,
			Skills:      skills,
			Experiences: experiences,
		})
	}
}

// registerFreelancer creates a freelancer account. This route is public.
func (h freelancerHandler) registerFreelancer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerFreelancerRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingField("name"))
			return
		}
		if req.Email == "" {
			h.responder.WriteError(w, errs.NewMissingField("email"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingField("password"))
			return
		}

		hash, err := services.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternal("hashing password", err))
			return
		}

		freelancer := models.Freelancer{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Bio:          req.Bio,
			Contact:      req.Contact,
		}
		if err := h.db.FreelancerRepo().Add(&freelancer); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "freelancer", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, freelancer)
	}
}

// updateFreelancer edits a freelancer profile. Only the account owner or an
// admin may edit it.
func (h freelancerHandler) updateFreelancer() http.HandlerFunc {
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
			h.responder.WriteError(w, errs.NewForbidden("not your account"))
			return
		}

		var req freelancerUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		freelancer, err := h.db.FreelancerRepo().FindByID(freelancerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "freelancer", err))
			return
		}

		if req.Name != nil {
			freelancer.Name = *req.Name
		}
		if req.Bio != nil {
			freelancer.Bio = req.Bio
		}
		if req.Contact != nil {
			freelancer.Contact = req.Contact
		}
		if req.Image != nil {
			freelancer.Image = req.Image
		}

		if err := h.db.FreelancerRepo().Update(freelancer); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "freelancer", err))
			return
		}
		h.responder.WriteJSON(w, freelancer)
	}
}

// deleteFreelancer removes a freelancer account and rolls back its contracts.
// Admin only; the deletion is audit-logged.
func (h freelancerHandler) deleteFreelancer() http.HandlerFunc {
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

		if err := h.lifecycle.DeleteFreelancer(caller, freelancerID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry := models.AuditLog{
			AdminID:     caller.ID,
			Action:      "delete",
			TargetTable: "freelancers",
			TargetID:    freelancerID,
		}
		if err := h.db.AuditLogRepo().Add(&entry); err != nil {
			h.logger.Error().Err(err).Msg("failed to write audit log entry")
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "freelancer deleted successfully",
		})
	}
}

// getFreelancerApplications lists every bid one freelancer has submitted.
// Restricted to the freelancer themselves or an admin.
func (h freelancerHandler) getFreelancerApplications() http.HandlerFunc {
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
			h.responder.WriteError(w, errs.NewForbidden("not your applications"))
			return
		}

		applications, err := h.db.ApplicationRepo().FindByFreelancerID(freelancerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "applications", err))
			return
		}
		h.responder.WriteJSON(w, applications)
	}
}
