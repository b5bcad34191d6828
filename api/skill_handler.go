package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newSkillHandler(db database.Database) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type createSkillRequest struct {
	Name string `json:"name"`
}

type freelancerSkillRequest struct {
	SkillID           uuid.UUID `json:"skillId"`
	ProficiencyLevel  string    `json:"proficiencyLevel"`
	YearsOfExperience int       `json:"yearsOfExperience"`
}

type taskSkillRequest struct {
	SkillID uuid.UUID `json:"skillId"`
}

func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.db.SkillRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skills", err))
			return
		}
		h.responder.WriteJSON(w, skills)
	}
}

func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSkillRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingField("name"))
			return
		}

		skill := models.Skill{Name: req.Name}
		if err := h.db.SkillRepo().Add(&skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "skill", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, skill)
	}
}

// addFreelancerSkill tags a freelancer with a catalog skill. Only the
// freelancer themselves or an admin.
func (h skillHandler) addFreelancerSkill() http.HandlerFunc {
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

		var req freelancerSkillRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.SkillID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("skillId"))
			return
		}
		if _, err := h.db.SkillRepo().FindByID(req.SkillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skill", err))
			return
		}

		link := models.FreelancerSkill{
			FreelancerID:      freelancerID,
			SkillID:           req.SkillID,
			ProficiencyLevel:  req.ProficiencyLevel,
			YearsOfExperience: req.YearsOfExperience,
		}
		if err := h.db.SkillRepo().AddFreelancerSkill(&link); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "freelancer skill", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, link)
	}
}

// addTaskSkill tags a task with a required catalog skill. Only the task's
// owner or an admin.
func (h skillHandler) addTaskSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := pathID(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		task, err := h.db.TaskRepo().FindByID(taskID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "task", err))
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != task.ClientID {
			h.responder.WriteError(w, errs.NewForbidden("not your task"))
			return
		}

		var req taskSkillRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.SkillID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("skillId"))
			return
		}
		if _, err := h.db.SkillRepo().FindByID(req.SkillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skill", err))
			return
		}

		link := models.TaskSkill{TaskID: taskID, SkillID: req.SkillID}
		if err := h.db.SkillRepo().AddTaskSkill(&link); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "task skill", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, link)
	}
}
