package services

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

// Ratings handles review submission and keeps Freelancer.Ratings equal to the
// mean of every review naming the freelancer as reviewee. The recompute runs
// inside the same transaction as the review write, with the freelancer row
// locked, so concurrent reviews for one freelancer serialize instead of losing
// updates.
type Ratings struct {
	db     database.Database
	logger zerolog.Logger
}

func NewRatings(db database.Database) *Ratings {
	logger := log.With().Str("service", "ratings").Logger()
	return &Ratings{db: db, logger: logger}
}

// NewReviewInput is the allow-listed payload for submitting a review. The
// reviewee is derived from the contract, never taken from the caller.
type NewReviewInput struct {
	ContractID uuid.UUID
	Rating     int
	Comment    *string
}

// SubmitReview creates a review by one party of a contract about the other and
// recomputes the reviewee's rating when the reviewee is the freelancer.
func (s *Ratings) SubmitReview(caller Caller, in NewReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errs.NewValidation("rating", "must be an integer between 1 and 5")
	}

	var review *models.Review
	err := s.db.Transaction(func(tx database.Database) error {
		contract, err := tx.ContractRepo().FindByID(in.ContractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}

		reviewee, ok := contract.Counterparty(caller.ID)
		if !ok {
			return errs.NewForbidden("only the contract's client or freelancer can leave a review")
		}

		existing, err := tx.ReviewRepo().FindByContractAndReviewer(contract.ID, caller.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "review", err)
		}
		if existing != nil {
			return errs.NewConflict("you have already reviewed this contract")
		}

		review = &models.Review{
			ContractID: contract.ID,
			ReviewerID: caller.ID,
			RevieweeID: reviewee,
			Rating:     in.Rating,
			Comment:    in.Comment,
		}
		if err := tx.ReviewRepo().Add(review); err != nil {
			return errs.NewDatabaseError("create", "review", err)
		}

		if reviewee == contract.FreelancerID {
			return recomputeFreelancerRating(tx, reviewee)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewUpdate is the allow-listed patch for editing a review.
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// UpdateReview edits the caller's own review and recomputes the reviewee's
// rating when the rating changed and the reviewee is a freelancer.
func (s *Ratings) UpdateReview(caller Caller, reviewID uuid.UUID, upd ReviewUpdate) (*models.Review, error) {
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return nil, errs.NewValidation("rating", "must be an integer between 1 and 5")
	}

	var review *models.Review
	err := s.db.Transaction(func(tx database.Database) error {
		var err error
		review, err = tx.ReviewRepo().FindByID(reviewID)
		if err != nil {
			return errs.NewDatabaseError("find", "review", err)
		}
		if caller.Role != models.RoleAdmin && review.ReviewerID != caller.ID {
			return errs.NewForbidden("review belongs to another account")
		}

		contract, err := tx.ContractRepo().FindByID(review.ContractID)
		if err != nil {
			return errs.NewDatabaseError("find", "contract", err)
		}

		ratingChanged := false
		if upd.Rating != nil && *upd.Rating != review.Rating {
			review.Rating = *upd.Rating
			ratingChanged = true
		}
		if upd.Comment != nil {
			review.Comment = upd.Comment
		}

		if err := tx.ReviewRepo().Update(review); err != nil {
			return errs.NewDatabaseError("update", "review", err)
		}

		if ratingChanged && review.RevieweeID == contract.FreelancerID {
			return recomputeFreelancerRating(tx, review.RevieweeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// recomputeFreelancerRating recalculates the mean from scratch over all of the
// freelancer's reviews across all contracts. With zero reviews the rating
// resets to nil. The freelancer row is locked for the rest of the transaction.
func recomputeFreelancerRating(tx database.Database, freelancerID uuid.UUID) error {
	freelancer, err := tx.FreelancerRepo().FindByIDForUpdate(freelancerID)
	if err != nil {
		return errs.NewDatabaseError("find", "freelancer", err)
	}

	avg, count, err := tx.ReviewRepo().AverageForReviewee(freelancerID)
	if err != nil {
		return errs.NewDatabaseError("aggregate", "reviews", err)
	}

	if count == 0 {
		freelancer.Ratings = nil
	} else {
		freelancer.Ratings = &avg
	}
	if err := tx.FreelancerRepo().Update(freelancer); err != nil {
		return errs.NewDatabaseError("update", "freelancer", err)
	}
	return nil
}
