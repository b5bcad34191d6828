package api

import (
	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, lifecycle *services.Lifecycle, ratings *services.Ratings, files *services.FileStore, sessions sessions) *routeHandlers {
	return &routeHandlers{
		authHandler:        newAuthHandler(db, sessions),
		clientHandler:      newClientHandler(db, lifecycle),
		freelancerHandler:  newFreelancerHandler(db, lifecycle),
		taskHandler:        newTaskHandler(db, lifecycle),
		applicationHandler: newApplicationHandler(db, lifecycle, files),
		contractHandler:    newContractHandler(db, lifecycle),
		milestoneHandler:   newMilestoneHandler(lifecycle),
		paymentHandler:     newPaymentHandler(db),
		reviewHandler:      newReviewHandler(db, ratings),
		complaintHandler:   newComplaintHandler(db),
		messageHandler:     newMessageHandler(db),
		skillHandler:       newSkillHandler(db),
		experienceHandler:  newExperienceHandler(db),
		fileHandler:        newFileHandler(files),
		auditHandler:       newAuditHandler(db),
	}
}
