package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive-backend/models"
	"gorm.io/gorm"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db}
}

// FindAll returns all reviews from the database
func (r *ReviewRepo) FindAll() ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.Find(&reviews).Error
	return reviews, err
}

// FindByID returns a review by its ID
func (r *ReviewRepo) FindByID(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByContractID returns a contract's reviews
func (r *ReviewRepo) FindByContractID(contractID uuid.UUID) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.Where("contract_id = ?", contractID).Find(&reviews).Error
	return reviews, err
}

// FindByContractAndReviewer returns the review a reviewer left on a contract,
// or nil when none exists. Backs the one-review-per-(contract, reviewer) rule.
func (r *ReviewRepo) FindByContractAndReviewer(contractID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "contract_id = ? AND reviewer_id = ?", contractID, reviewerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// AverageForReviewee returns the arithmetic mean of all ratings naming the
// given account as reviewee, and how many reviews that covers.
func (r *ReviewRepo) AverageForReviewee(revieweeID uuid.UUID) (float64, int64, error) {
	var count int64
	if err := r.db.Model(&models.Review{}).Where("reviewee_id = ?", revieweeID).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	err := r.db.Model(&models.Review{}).Where("reviewee_id = ?", revieweeID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

// Add inserts a new review into the database
func (r *ReviewRepo) Add(review *models.Review) error {
	return r.db.Create(review).Error
}

// Update updates an existing review in the database
func (r *ReviewRepo) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

// Delete removes a review from the database by id
func (r *ReviewRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Review{}, "id = ?", id).Error
}

// DeleteByContractID removes every review under a contract
func (r *ReviewRepo) DeleteByContractID(contractID uuid.UUID) error {
	return r.db.Delete(&models.Review{}, "contract_id = ?", contractID).Error
}
