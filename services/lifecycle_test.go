package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

func TestSubmitApplication(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client := seedClient(t, db)
	freelancer := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	application, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{
		TaskID:        task.ID,
		BidAmount:     450,
		EstimatedDays: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, application.Status)
	assert.Equal(t, 450.0, application.BidAmount)

	t.Run("duplicate bid on same task conflicts", func(t *testing.T) {
		_, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{
			TaskID:    task.ID,
			BidAmount: 400,
		})
		assert.True(t, errs.IsConflict(err))
	})

	t.Run("clients cannot apply", func(t *testing.T) {
		_, err := lc.SubmitApplication(asClient(client), NewApplicationInput{
			TaskID:    task.ID,
			BidAmount: 400,
		})
		assert.True(t, errs.IsForbidden(err))
	})

	t.Run("zero bid rejected", func(t *testing.T) {
		other := seedFreelancer(t, db)
		_, err := lc.SubmitApplication(asFreelancer(other), NewApplicationInput{
			TaskID:    task.ID,
			BidAmount: 0,
		})
		assert.True(t, errs.IsValidation(err))
	})
}

func TestSubmitApplicationOnNonOpenTask(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	_, _, task, _, _ := awardedContract(t, db, lc)

	late := seedFreelancer(t, db)
	_, err := lc.SubmitApplication(asFreelancer(late), NewApplicationInput{
		TaskID:    task.ID,
		BidAmount: 200,
	})
	assert.True(t, errs.IsConflict(err))
}

func TestAwardContract(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	_, freelancer, task, application, contract := awardedContract(t, db, lc)

	assert.Equal(t, models.ContractActive, contract.Status)
	assert.Equal(t, 500.0, contract.AgreedAmount)
	assert.Equal(t, task.ID, contract.TaskID)
	assert.Equal(t, freelancer.ID, contract.FreelancerID)
	assert.True(t, strings.HasPrefix(contract.ContractCode, "CT-"))
	require.NotNil(t, contract.StartedAt)

	gotTask, err := db.TaskRepo().FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, gotTask.Status)

	gotApp, err := db.ApplicationRepo().FindByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, gotApp.Status)
}

func TestAwardContractTwiceConflictsWithoutMutation(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client := seedClient(t, db)
	first := seedFreelancer(t, db)
	second := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	appFirst, err := lc.SubmitApplication(asFreelancer(first), NewApplicationInput{TaskID: task.ID, BidAmount: 500})
	require.NoError(t, err)
	appSecond, err := lc.SubmitApplication(asFreelancer(second), NewApplicationInput{TaskID: task.ID, BidAmount: 480})
	require.NoError(t, err)

	_, err = lc.AwardContract(asClient(client), appFirst.ID)
	require.NoError(t, err)

	_, err = lc.AwardContract(asClient(client), appSecond.ID)
	assert.True(t, errs.IsConflict(err))

	// the losing attempt must not have touched any state
	gotSecond, err := db.ApplicationRepo().FindByID(appSecond.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, gotSecond.Status)

	gotTask, err := db.TaskRepo().FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, gotTask.Status)

	contract, err := db.ContractRepo().FindByTaskID(task.ID)
	require.NoError(t, err)
	require.NotNil(t, contract)
	assert.Equal(t, first.ID, contract.FreelancerID)
}

func TestAwardContractForbiddenForOtherClient(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client := seedClient(t, db)
	stranger := seedClient(t, db)
	freelancer := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	application, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{TaskID: task.ID, BidAmount: 500})
	require.NoError(t, err)

	_, err = lc.AwardContract(asClient(stranger), application.ID)
	assert.True(t, errs.IsForbidden(err))

	gotTask, err := db.TaskRepo().FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskOpen, gotTask.Status)
}

func TestAwardContractRejectLosingBids(t *testing.T) {
	db := newTestDB(t)
	lc := NewLifecycle(db, nil, LifecycleConfig{RejectLosingBids: true})
	client := seedClient(t, db)
	winner := seedFreelancer(t, db)
	loser := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	winning, err := lc.SubmitApplication(asFreelancer(winner), NewApplicationInput{TaskID: task.ID, BidAmount: 500})
	require.NoError(t, err)
	losing, err := lc.SubmitApplication(asFreelancer(loser), NewApplicationInput{TaskID: task.ID, BidAmount: 520})
	require.NoError(t, err)

	_, err = lc.AwardContract(asClient(client), winning.ID)
	require.NoError(t, err)

	gotLosing, err := db.ApplicationRepo().FindByID(losing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, gotLosing.Status)

	gotWinning, err := db.ApplicationRepo().FindByID(winning.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, gotWinning.Status)
}

func TestMilestoneRollupCompletesContract(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	design, err := lc.AddMilestone(asClient(client), NewMilestoneInput{
		ContractID: contract.ID,
		Title:      "Design",
		Weight:     0.4,
	})
	require.NoError(t, err)
	build, err := lc.AddMilestone(asClient(client), NewMilestoneInput{
		ContractID: contract.ID,
		Title:      "Build",
		Weight:     0.6,
	})
	require.NoError(t, err)

	done := true
	_, err = lc.UpdateMilestone(asClient(client), design.ID, MilestoneUpdate{Completed: &done})
	require.NoError(t, err)

	got, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, got.Status, "one open milestone left, must stay active")

	_, err = lc.UpdateMilestone(asClient(client), build.ID, MilestoneUpdate{Completed: &done})
	require.NoError(t, err)

	got, err = db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestContractWithZeroMilestonesNeverAutoCompletes(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	m, err := lc.AddMilestone(asClient(client), NewMilestoneInput{
		ContractID: contract.ID,
		Title:      "Only one",
		Weight:     1,
	})
	require.NoError(t, err)
	require.NoError(t, lc.DeleteMilestone(asClient(client), m.ID))

	got, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, got.Status)
}

func TestDeletingLastIncompleteMilestoneCompletesContract(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	done := true
	finished, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Done part", Weight: 0.5})
	require.NoError(t, err)
	_, err = lc.UpdateMilestone(asClient(client), finished.ID, MilestoneUpdate{Completed: &done})
	require.NoError(t, err)

	stale, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Abandoned part", Weight: 0.5})
	require.NoError(t, err)

	require.NoError(t, lc.DeleteMilestone(asClient(client), stale.ID))

	got, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractCompleted, got.Status)
}

func TestUncompletingMilestoneDoesNotRevertContract(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	done := true
	m, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "All of it", Weight: 1})
	require.NoError(t, err)
	_, err = lc.UpdateMilestone(asClient(client), m.ID, MilestoneUpdate{Completed: &done})
	require.NoError(t, err)

	undone := false
	_, err = lc.UpdateMilestone(asClient(client), m.ID, MilestoneUpdate{Completed: &undone})
	require.NoError(t, err)

	got, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractCompleted, got.Status, "rollup is one-way")
}

func TestMilestoneWeightValidation(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	_, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Bad", Weight: 0})
	assert.True(t, errs.IsValidation(err))

	_, err = lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Bad", Weight: 1.2})
	assert.True(t, errs.IsValidation(err))

	_, err = lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Most", Weight: 0.7})
	require.NoError(t, err)
	_, err = lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Too much", Weight: 0.5})
	assert.True(t, errs.IsValidation(err), "weights across a contract cannot exceed 1")
}

func TestMilestoneEditForbiddenForNonParty(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	m, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Design", Weight: 0.5})
	require.NoError(t, err)

	outsider := seedFreelancer(t, db)
	done := true
	_, err = lc.UpdateMilestone(asFreelancer(outsider), m.ID, MilestoneUpdate{Completed: &done})
	assert.True(t, errs.IsForbidden(err))

	err = lc.DeleteMilestone(asFreelancer(outsider), m.ID)
	assert.True(t, errs.IsForbidden(err))

	got, err := db.MilestoneRepo().FindByID(m.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestUpdateContractStatus(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, _, _, contract := awardedContract(t, db, lc)

	got, err := lc.UpdateContractStatus(asClient(client), contract.ID, ContractStatusUpdate{Status: models.ContractCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.ContractCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	t.Run("cancelled must go through the cancel operation", func(t *testing.T) {
		_, err := lc.UpdateContractStatus(asClient(client), contract.ID, ContractStatusUpdate{Status: models.ContractCancelled})
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("non-party clients are rejected", func(t *testing.T) {
		stranger := seedClient(t, db)
		_, err := lc.UpdateContractStatus(asClient(stranger), contract.ID, ContractStatusUpdate{Status: models.ContractActive})
		assert.True(t, errs.IsForbidden(err))
	})
}

func TestMilestoneOperationsOnMissingRowsNotFound(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client := seedClient(t, db)

	missing := seedTask(t, db, client.ID).ID // a real uuid that is not a milestone
	_, err := lc.UpdateMilestone(asClient(client), missing, MilestoneUpdate{})
	assert.True(t, errs.IsNotFound(err))

	err = lc.DeleteMilestone(asClient(client), missing)
	assert.True(t, errs.IsNotFound(err))
}

func TestSubmitApplicationSurfacesDuplicateCheckFailure(t *testing.T) {
	db, gormDB := newTestDBWithConn(t)
	lc := newTestLifecycle(t, db)
	client := seedClient(t, db)
	freelancer := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	require.NoError(t, gormDB.Migrator().DropTable(&models.Application{}))

	// the lookup itself fails; that must come back as an error rather than
	// being read as "no duplicate" and falling through to the insert
	_, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{TaskID: task.ID, BidAmount: 250})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to find application"))
}
