package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
)

func TestCancelContractRollsEverythingBack(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	client, freelancer, task, application, contract := awardedContract(t, db, lc)

	// hang every kind of dependent row off the contract
	m1, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Design", Weight: 0.5})
	require.NoError(t, err)
	m2, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "Build", Weight: 0.5})
	require.NoError(t, err)
	require.NoError(t, db.PaymentRepo().Add(&models.Payment{
		ContractID: contract.ID, PayerID: client.ID, PayeeID: freelancer.ID, Amount: 250, Method: "card",
	}))
	require.NoError(t, db.MessageRepo().Add(&models.Message{
		ContractID: contract.ID, SenderID: client.ID, ReceiverID: freelancer.ID, Content: "hi",
	}))
	require.NoError(t, db.ComplaintRepo().Add(&models.Complaint{
		ContractID: contract.ID, ComplainantID: client.ID, RespondentID: freelancer.ID,
		ComplainantType: models.RoleClient, Description: "late",
	}))
	_, err = ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: 4})
	require.NoError(t, err)

	require.NoError(t, lc.CancelContract(asClient(client), contract.ID))

	// award side effects undone
	gotTask, err := db.TaskRepo().FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskOpen, gotTask.Status)

	gotApp, err := db.ApplicationRepo().FindByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, gotApp.Status)

	// owned rows gone
	_, err = db.MilestoneRepo().FindByID(m1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = db.MilestoneRepo().FindByID(m2.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	payments, err := db.PaymentRepo().FindByContractID(contract.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	messages, err := db.MessageRepo().FindByContractID(contract.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
	complaints, err := db.ComplaintRepo().FindByContractID(contract.ID)
	require.NoError(t, err)
	assert.Empty(t, complaints)
	reviews, err := db.ReviewRepo().FindByContractID(contract.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	gone, err := db.ContractRepo().FindByTaskID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// rating recomputed now that the contract's review is gone
	gotFreelancer, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	assert.Nil(t, gotFreelancer.Ratings)

	// and the task can be awarded again
	reAwarded, err := lc.AwardContract(asClient(client), application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, reAwarded.Status)
}

func TestCancelContractForbiddenForNonParty(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	_, _, _, _, contract := awardedContract(t, db, lc)

	outsider := seedClient(t, db)
	err := lc.CancelContract(asClient(outsider), contract.ID)
	assert.True(t, errs.IsForbidden(err))

	still, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, still.Status)
}

func TestDeleteTaskCascades(t *testing.T) {
	db := newTestDB(t)

	files, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	lc := NewLifecycle(db, files, LifecycleConfig{})

	client := seedClient(t, db)
	freelancer := seedFreelancer(t, db)
	task := seedTask(t, db, client.ID)

	letter, err := files.Save([]byte("dear client"), "txt")
	require.NoError(t, err)
	application, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{
		TaskID:      task.ID,
		BidAmount:   500,
		CoverLetter: &letter,
	})
	require.NoError(t, err)

	skill := &models.Skill{Name: "go"}
	require.NoError(t, db.SkillRepo().Add(skill))
	require.NoError(t, db.SkillRepo().AddTaskSkill(&models.TaskSkill{TaskID: task.ID, SkillID: skill.ID}))

	contract, err := lc.AwardContract(asClient(client), application.ID)
	require.NoError(t, err)
	_, err = lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "All", Weight: 1})
	require.NoError(t, err)

	require.NoError(t, lc.DeleteTask(asClient(client), task.ID))

	_, err = db.TaskRepo().FindByID(task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = db.ApplicationRepo().FindByID(application.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	gone, err := db.ContractRepo().FindByTaskID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	milestones, err := db.MilestoneRepo().FindByContractID(contract.ID)
	require.NoError(t, err)
	assert.Empty(t, milestones)

	// the cover-letter artifact went with the application
	_, err = files.Open(letter)
	assert.True(t, errs.IsNotFound(err))

	t.Run("only the owner or an admin may delete", func(t *testing.T) {
		otherTask := seedTask(t, db, client.ID)
		stranger := seedClient(t, db)
		err := lc.DeleteTask(asClient(stranger), otherTask.ID)
		assert.True(t, errs.IsForbidden(err))
	})
}

func TestDeleteFreelancerCascades(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, freelancer, task, application, contract := awardedContract(t, db, lc)

	skill := &models.Skill{Name: "rust"}
	require.NoError(t, db.SkillRepo().Add(skill))
	require.NoError(t, db.SkillRepo().AddFreelancerSkill(&models.FreelancerSkill{
		FreelancerID: freelancer.ID, SkillID: skill.ID, ProficiencyLevel: "expert",
	}))
	require.NoError(t, db.ExperienceRepo().Add(&models.FreelancerExperience{
		FreelancerID: freelancer.ID, CompanyName: "Initech", RoleTitle: "Engineer",
	}))
	_, err := lc.AddMilestone(asClient(client), NewMilestoneInput{ContractID: contract.ID, Title: "All", Weight: 1})
	require.NoError(t, err)

	t.Run("non-admins are rejected", func(t *testing.T) {
		err := lc.DeleteFreelancer(asClient(client), freelancer.ID)
		assert.True(t, errs.IsForbidden(err))
	})

	require.NoError(t, lc.DeleteFreelancer(asAdmin(), freelancer.ID))

	_, err = db.FreelancerRepo().FindByID(freelancer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = db.ApplicationRepo().FindByID(application.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	gone, err := db.ContractRepo().FindByTaskID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	links, err := db.SkillRepo().FindFreelancerSkills(freelancer.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
	experiences, err := db.ExperienceRepo().FindByFreelancerID(freelancer.ID)
	require.NoError(t, err)
	assert.Empty(t, experiences)

	// the freelancer's in-flight task went back to open for new bids
	gotTask, err := db.TaskRepo().FindByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskOpen, gotTask.Status)
}

func TestDeleteClientCascades(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	client, _, task, _, contract := awardedContract(t, db, lc)
	secondTask := seedTask(t, db, client.ID)

	t.Run("non-admins are rejected", func(t *testing.T) {
		err := lc.DeleteClient(asClient(client), client.ID)
		assert.True(t, errs.IsForbidden(err))
	})

	require.NoError(t, lc.DeleteClient(asAdmin(), client.ID))

	_, err := db.ClientRepo().FindByID(client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = db.TaskRepo().FindByID(task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = db.TaskRepo().FindByID(secondTask.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	gone, err := db.ContractRepo().FindByTaskID(task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	milestones, err := db.MilestoneRepo().FindByContractID(contract.ID)
	require.NoError(t, err)
	assert.Empty(t, milestones)
}

func TestDeleteTaskRecomputesFreelancerRating(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)

	client := seedClient(t, db)
	freelancer := seedFreelancer(t, db)
	taskA := seedTask(t, db, client.ID)
	taskB := seedTask(t, db, client.ID)

	appA, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{TaskID: taskA.ID, BidAmount: 400})
	require.NoError(t, err)
	appB, err := lc.SubmitApplication(asFreelancer(freelancer), NewApplicationInput{TaskID: taskB.ID, BidAmount: 600})
	require.NoError(t, err)

	contractA, err := lc.AwardContract(asClient(client), appA.ID)
	require.NoError(t, err)
	contractB, err := lc.AwardContract(asClient(client), appB.ID)
	require.NoError(t, err)

	_, err = ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contractA.ID, Rating: 5})
	require.NoError(t, err)
	_, err = ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contractB.ID, Rating: 3})
	require.NoError(t, err)

	got, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.InDelta(t, 4.0, *got.Ratings, 1e-9)

	// deleting the task takes contract A's review with it; the mean must
	// follow the surviving reviews
	require.NoError(t, lc.DeleteTask(asClient(client), taskA.ID))

	got, err = db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Ratings)
	assert.InDelta(t, 3.0, *got.Ratings, 1e-9)

	// and once the last reviewed contract is gone the rating resets
	require.NoError(t, lc.DeleteTask(asClient(client), taskB.ID))

	got, err = db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Ratings)
}

func TestDeleteClientRecomputesFreelancerRating(t *testing.T) {
	db := newTestDB(t)
	lc := newTestLifecycle(t, db)
	ratings := NewRatings(db)
	client, freelancer, _, _, contract := awardedContract(t, db, lc)

	_, err := ratings.SubmitReview(asClient(client), NewReviewInput{ContractID: contract.ID, Rating: 5})
	require.NoError(t, err)

	require.NoError(t, lc.DeleteClient(asAdmin(), client.ID))

	got, err := db.FreelancerRepo().FindByID(freelancer.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Ratings)
}

func TestCancelContractAbortsWhenTaskLookupFails(t *testing.T) {
	db, gormDB := newTestDBWithConn(t)
	lc := newTestLifecycle(t, db)
	client, _, _, application, contract := awardedContract(t, db, lc)

	require.NoError(t, gormDB.Migrator().DropTable(&models.Task{}))

	err := lc.CancelContract(asClient(client), contract.ID)
	require.Error(t, err)

	// the whole transaction must have rolled back
	still, err := db.ContractRepo().FindByID(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, still.Status)

	gotApp, err := db.ApplicationRepo().FindByID(application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, gotApp.Status)
}
