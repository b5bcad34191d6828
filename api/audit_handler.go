package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

type auditHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newAuditHandler(db database.Database) auditHandler {
	logger := log.With().Str("handlerName", "auditHandler").Logger()

	return auditHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getAuditLogs lists recorded admin actions. Admin only.
func (h auditHandler) getAuditLogs() http.HandlerFunc {
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

		entries, err := h.db.AuditLogRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "audit logs", err))
			return
		}
		h.responder.WriteJSON(w, entries)
	}
}
