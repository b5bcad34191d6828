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

type paymentHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newPaymentHandler(db database.Database) paymentHandler {
	logger := log.With().Str("handlerName", "paymentHandler").Logger()

	return paymentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type createPaymentRequest struct {
	ContractID uuid.UUID `json:"contractId"`
	Amount     float64   `json:"amount"`
	Method     string    `json:"method"`
}

type paymentStatusRequest struct {
	Status models.PaymentStatus `json:"status"`
}

func (h paymentHandler) getPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		paymentID, err := pathID(r, "paymentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		payment, err := h.db.PaymentRepo().FindByID(paymentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "payment", err))
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != payment.PayerID && caller.ID != payment.PayeeID {
			h.responder.WriteError(w, errs.NewForbidden("not a party to this payment"))
			return
		}
		h.responder.WriteJSON(w, payment)
	}
}

// createPayment records a payment from the contract's client to its
// freelancer. Only the paying client may create it.
func (h paymentHandler) createPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createPaymentRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ContractID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("contractId"))
			return
		}
		if req.Amount <= 0 {
			h.responder.WriteError(w, errs.NewValidation("amount", "must be positive"))
			return
		}

		contract, err := h.db.ContractRepo().FindByID(req.ContractID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contract", err))
			return
		}
		if caller.Role != models.RoleAdmin && caller.ID != contract.ClientID {
			h.responder.WriteError(w, errs.NewForbidden("only the contract's client can pay"))
			return
		}
		if contract.Status == models.ContractCancelled {
			h.responder.WriteError(w, errs.NewConflict("contract is cancelled"))
			return
		}

		payment := models.Payment{
			ContractID: contract.ID,
			PayerID:    contract.ClientID,
			PayeeID:    contract.FreelancerID,
			Amount:     req.Amount,
			Method:     req.Method,
		}
		if err := h.db.PaymentRepo().Add(&payment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "payment", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, payment)
	}
}

// updatePayment moves a payment through pending/completed/failed. Admin only.
func (h paymentHandler) updatePayment() http.HandlerFunc {
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
		paymentID, err := pathID(r, "paymentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req paymentStatusRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		switch req.Status {
		case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
		default:
			h.responder.WriteError(w, errs.NewValidation("status", "unknown payment status"))
			return
		}

		payment, err := h.db.PaymentRepo().FindByID(paymentID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "payment", err))
			return
		}
		payment.Status = req.Status
		if err := h.db.PaymentRepo().Update(payment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "payment", err))
			return
		}
		h.responder.WriteJSON(w, payment)
	}
}
