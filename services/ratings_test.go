package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

func TestSubmitReviewComputesMean(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)

	client, freelancer, _, _, contract := awardedContract(t, db, lc)

	review, err := ratings.SubmitReview(asClient(client), NewReviewInput{
		ContractID: contract.ID,
		Rating:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, freelancer.ID, review.RevieweeID)

	got, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.Equal(t, 4.0, *got.Ratings)

	// a second contract for the same freelancer; the mean spans all contracts
	secondTask := seedTask(t, db, client.ID)
	secondApp, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{TaskID: secondTask.ID, BidAmount: 700})
	require.NoError(t, err)
	secondContract, err := lc.AwardContract(asClient(client), secondApp.ID)
	require.NoError(t, err)

	_, err = ratings.SubmitReview(asClient(client), NewReviewInput{
		ContractID: secondContract.ID,
		Rating:     5,
	})
	require.NoError(t, err)

	got, err = db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.Equal(t, 4.5, *got.Ratings)
}

func TestSubmitReviewValidation(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	for _, rating := range []int{0, 6, -1} {
		_, err := ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: rating})
		assert.True(t, errs.IsValidation(err), "rating %d must be rejected", rating)
	}
}

func TestSubmitReviewTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	_, err := ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: 5})
	require.NoError(t, err)

	_, err = ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: 1})
	assert.True(t, errs.IsConflict(err))
}

func TestSubmitReviewByNonPartyForbidden(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	_, _, _, _, contract := awardedContract(t, db, lc)

	outsider := seedFreelancer(t, db)
	_, err := ratings.SubmitReview(asFreelancer(outsider), NewReviewInput{ContractID: contract.ID, Rating: 5})
	assert.True(t, errs.IsForbidden(err))
}

func TestFreelancerReviewingClientLeavesRatingsAlone(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	_, freelancer, _, _, contract := awardedContract(t, db, lc)

	_, err := ratings.SubmitReview(asFreelancer(freelancer), NewReviewInput{ContractID: contract.ID, Rating: 2})
	require.NoError(t, err)

	got, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Ratings, "a review about the client must not touch the freelancer's rating")
}

func TestUpdateReviewRecomputesMean(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	client, freelancer, _, _, contract := awardedContract(t, db, lc)

	review, err := ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: 2})
	require.NoError(t, err)

	newRating := 5
	_, err = ratings.UpdateReview(asClient(client), review.ID, ReviewUpdate{Rating: &newRating})
	require.NoError(t, err)

	got, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.Equal(t, 5.0, *got.Ratings)

	t.Run("only the reviewer can edit", func(t *testing.T) {
		stranger := seedClient(t, db)
		_, err := ratings.UpdateReview(asClient(stranger), review.ID, ReviewUpdate{Rating: &newRating})
		assert.True(t, errs.IsForbidden(err))
	})

	t.Run("out-of-range edit rejected", func(t *testing.T) {
		bad := 9
		_, err := ratings.UpdateReview(asClient(client), review.ID, ReviewUpdate{Rating: &bad})
		assert.True(t, errs.IsValidation(err))
	})
}

func TestScenarioAwardMilestonesReview(t *testing.T) {
	// Task open -> bid 500 -> award -> two milestones completed -> review 5.
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)

	client, freelancer, task, application, contract := awardedContract(t, db, lc)
	assert.Equal(t, 500.0, contract.AgreedAmount)

	gotTask, err := db.TaskRepo().FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, gotTask.Status)

	gotApp, err := db.ApplicationRepo().FindByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, gotApp.Status)

	done := true
	first, err := lc.AddMilestone(asFreelancer(freelancer), NewMilestoneInput{ContractID: contract.ID, Title: "Half", Weight: 0.5})
	require.NoError(t, err)
	second, err := lc.AddMilestone(asFreelancer(freelancer), NewMilestoneInput{ContractID: contract.ID, Title: "Rest", Weight: 0.5})
	require.NoError(t, err)
	_, err = lc.UpdateMilestone(asFreelancer(freelancer), first.ID, MilestoneUpdate{Completed: &done})
	require.NoError(t, err)
	_, err = lc.UpdateMilestone(asFreelancer(freelancer), second.ID, MilestoneUpdate{Completed: &done})
	require.NoError(t, err)

	gotContract, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractCompleted, gotContract.Status)

	_, err = ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: 5})
	require.NoError(t, err)

	gotFreelancer, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	require.NotNil(t, gotFreelancer.Ratings)
	assert.Equal(t, 5.0, *gotFreelancer.Ratings)
}
