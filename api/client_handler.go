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

type clientHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	lifecycle *services.Lifecycle
}

func newClientHandler(db database.Database, lifecycle *services.Lifecycle) clientHandler {
	logger := log.With().Str("handlerName", "clientHandler").Logger()

	return clientHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		lifecycle: lifecycle,
	}
}

type registerClientRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Bio      *string `json:"bio,omitempty"`
	Contact  *string `json:"contact,omitempty"`
}

// clientUpdateRequest is the allow-listed patch for a client profile. Email
// and password changes are deliberately excluded.
type clientUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Bio     *string `json:"bio,omitempty"`
	Contact *string `json:"contact,omitempty"`
	Image   *string `json:"image,omitempty"`
}

func (h clientHandler) getAllClients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := h.db.ClientRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "clients", err))
			return
		}
		h.responder.WriteJSON(w, clients)
	}
}

func (h clientHandler) getClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := pathID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		client, err := h.db.ClientRepo().FindByID(clientID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "client", err))
			return
		}
		h.responder.WriteJSON(w, client)
	}
}

// registerClient creates a client account. This route is public.
func (h clientHandler) registerClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerClientRequest
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

		client := models.Client{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Bio:          req.Bio,
			Contact:      req.Contact,
		}
		if err := h.db.ClientRepo().Add(&client); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "client", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, client)
	}
}

// updateClient edits a client profile. Only the account owner or an admin may
// edit it.
func (h clientHandler) updateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		clientID, err := pathID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != clientID {
			h.responder.WriteError(w, errs.NewForbidden("not your account"))
			return
		}

		var req clientUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		client, err := h.db.ClientRepo().FindByID(clientID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "client", err))
			return
		}

		if req.Name != nil {
			client.Name = *req.Name
		}
		if req.Bio != nil {
			client.Bio = req.Bio
		}
		if req.Contact != nil {
			client.Contact = req.Contact
		}
		if req.Image != nil {
			client.Image = req.Image
		}

		if err := h.db.ClientRepo().Update(client); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "client", err))
			return
		}
		h.responder.WriteJSON(w, client)
	}
}

// deleteClient removes a client account and cascades every task and contract
// it owns. Admin only; the deletion is audit-logged.
func (h clientHandler) deleteClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		clientID, err := pathID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.lifecycle.DeleteClient(caller, clientID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry := models.AuditLog{
			AdminID:     caller.ID,
			Action:      "delete",
			TargetTable: "clients",
			TargetID:    clientID,
		}
		if err := h.db.AuditLogRepo().Add(&entry); err != nil {
			h.logger.Error().Err(err).Msg("failed to write audit log entry")
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "client deleted successfully",
		})
	}
}

// getClientTasks lists the tasks posted by one client.
func (h clientHandler) getClientTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := pathID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tasks, err := h.db.TaskRepo().FindByClientID(clientID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tasks", err))
			return
		}
		h.responder.WriteJSON(w, tasks)
	}
}
