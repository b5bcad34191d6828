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

type taskHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	lifecycle *services.Lifecycle
}

func newTaskHandler(db database.Database, lifecycle *services.Lifecycle) taskHandler {
	logger := log.With().Str("handlerName", "taskHandler").Logger()

	return taskHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		lifecycle: lifecycle,
	}
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	BudgetMin   float64    `json:"budgetMin"`
	BudgetMax   float64    `json:"budgetMax"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// taskUpdateRequest is the allow-listed patch for a task. Status and owner are
// excluded: status belongs to the lifecycle engine.
type taskUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	BudgetMin   *float64   `json:"budgetMin,omitempty"`
	BudgetMax   *float64   `json:"budgetMax,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// getAllTasks lists tasks, optionally filtered with ?status=open.
func (h taskHandler) getAllTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tasks []*models.Task
		var err error

		if status := r.URL.Query().Get("status"); status != "" {
			tasks, err = h.db.TaskRepo().FindByStatus(models.TaskStatus(status))
		} else {
			tasks, err = h.db.TaskRepo().FindAll()
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tasks", err))
			return
		}
		h.responder.WriteJSON(w, tasks)
	}
}

func (h taskHandler) getTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		h.responder.WriteJSON(w, task)
	}
}

// createTask posts a task. Clients only; it opens for bids immediately.
func (h taskHandler) createTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if caller.Role != models.RoleClient {
			h.responder.WriteError(w, errs.NewForbidden("only clients can post tasks"))
			return
		}

		var req createTaskRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Title == "" {
			h.responder.WriteError(w, errs.NewMissingField("title"))
			return
		}
		if req.BudgetMax < req.BudgetMin {
			h.responder.WriteError(w, errs.NewValidation("budgetMax", "must not be below budgetMin"))
			return
		}

		task := models.Task{
			ClientID:    caller.ID,
			Title:       req.Title,
			Description: req.Description,
			BudgetMin:   req.BudgetMin,
			BudgetMax:   req.BudgetMax,
			Deadline:    req.Deadline,
			Status:      models.TaskOpen,
		}
		if err := h.db.TaskRepo().Add(&task); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "task", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, task)
	}
}

// updateTask edits task fields. Owner or admin only; status is not editable
// here.
func (h taskHandler) updateTask() http.HandlerFunc {
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

		var req taskUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.BudgetMin != nil {
			task.BudgetMin = *req.BudgetMin
		}
		if req.BudgetMax != nil {
			task.BudgetMax = *req.BudgetMax
		}
		if req.Deadline != nil {
			task.Deadline = req.Deadline
		}
		if task.BudgetMax < task.BudgetMin {
			h.responder.WriteError(w, errs.NewValidation("budgetMax", "must not be below budgetMin"))
			return
		}

		if err := h.db.TaskRepo().Update(task); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "task", err))
			return
		}
		h.responder.WriteJSON(w, task)
	}
}

// deleteTask removes a task and cascades its applications and contract.
func (h taskHandler) deleteTask() http.HandlerFunc {
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

		if err := h.lifecycle.DeleteTask(caller, taskID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if caller.Role == models.RoleAdmin {
			entry := models.AuditLog{
				AdminID:     caller.ID,
				Action:      "delete",
				TargetTable: "tasks",
				TargetID:    taskID,
			}
			if err := h.db.AuditLogRepo().Add(&entry); err != nil {
				h.logger.Error().Err(err).Msg("failed to write audit log entry")
			}
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "task deleted successfully",
		})
	}
}

// getTaskApplications lists the bids on one task. Restricted to the task's
// owner or an admin: freelancers do not see each other's bids.
func (h taskHandler) getTaskApplications() http.HandlerFunc {
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

		applications, err := h.db.ApplicationRepo().FindByTaskID(taskID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "applications", err))
			return
		}
		h.responder.WriteJSON(w, applications)
	}
}
