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

type messageHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newMessageHandler(db database.Database) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type createMessageRequest struct {
	ContractID uuid.UUID `json:"contractId"`
	Content    string    `json:"content"`
}

// createMessage sends a message to the counterparty of a contract.
func (h messageHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createMessageRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ContractID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("contractId"))
			return
		}
		if req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingField("content"))
			return
		}

		contract, err := h.db.ContractRepo().FindByID(req.ContractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contract", err))
			return
		}
		receiver, ok := contract.Counterparty(caller.ID)
		if !ok {
			h.responder.WriteError(w, errs.NewForbidden("not a party to this contract"))
			return
		}

		message := models.Message{
			ContractID: contract.ID,
			SenderID:   caller.ID,
			ReceiverID: receiver,
			Content:    req.Content,
		}
		if err := h.db.MessageRepo().Add(&message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "message", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, message)
	}
}

// getContractMessages lists the thread for one contract.
func (h messageHandler) getContractMessages() http.HandlerFunc {
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

		messages, err := h.db.MessageRepo().FindByContractID(contractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "messages", err))
			return
		}

		// Mark the caller's unread messages as read on fetch.
		for _, message := range messages {
			if message.ReceiverID == caller.ID && !message.IsRead {
				message.IsRead = true
				if err := h.db.MessageRepo().Update(message); err != nil {
					h.logger.Error().Err(err).Msg("failed to mark message read")
				}
			}
		}

		h.responder.WriteJSON(w, messages)
	}
}
