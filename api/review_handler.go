package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type reviewHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	ratings   *services.Ratings
}

func newReviewHandler(db database.Database, ratings *services.Ratings) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		ratings:   ratings,
	}
}

type createReviewRequest struct {
	ContractID uuid.UUID `json:"contractId"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
}

type reviewUpdateRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

func (h reviewHandler) getReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, err := pathID(r, "reviewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		review, err := h.db.ReviewRepo().FindByID(reviewID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "review", err))
			return
		}
		h.responder.WriteJSON(w, review)
	}
}

// createReview submits a review for the counterparty of a contract and
// recomputes the freelancer's rating when they are the reviewee.
func (h reviewHandler) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createReviewRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ContractID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingField("contractId"))
			return
		}

		review, err := h.ratings.SubmitReview(caller, services.NewReviewInput{
			ContractID: req.ContractID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, review)
	}
}

func (h reviewHandler) updateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		reviewID, err := pathID(r, "reviewID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req reviewUpdateRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		review, err := h.ratings.UpdateReview(caller, reviewID, services.ReviewUpdate{
			Rating:  req.Rating,
			Comment: req.Comment,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, review)
	}
}
