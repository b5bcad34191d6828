package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the whole API under /api. Registration, login and the
// public catalog reads skip authentication; everything else requires a
// session.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/login", handlers.authHandler.login())
			r.Post("/logout", handlers.authHandler.logout())
			r.Post("/clients", handlers.clientHandler.registerClient())
			r.Post("/freelancers", handlers.freelancerHandler.registerFreelancer())
			r.Get("/tasks", handlers.taskHandler.getAllTasks())
			r.Get("/tasks/{taskID}", handlers.taskHandler.getTask())
			r.Get("/skills", handlers.skillHandler.getAllSkills())
			r.Get("/clients/{clientID}", handlers.clientHandler.getClient())
			r.Get("/freelancers/{freelancerID}", handlers.freelancerHandler.getFreelancer())
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/current_user", handlers.authHandler.currentUser())

			// Clients
			r.Get("/clients", handlers.clientHandler.getAllClients())
			r.Put("/clients/{clientID}", handlers.clientHandler.updateClient())
			r.Delete("/clients/{clientID}", handlers.clientHandler.deleteClient())
			r.Get("/clients/{clientID}/tasks", handlers.clientHandler.getClientTasks())

			// Freelancers
			r.Get("/freelancers", handlers.freelancerHandler.getAllFreelancers())
			r.Put("/freelancers/{freelancerID}", handlers.freelancerHandler.updateFreelancer())
			r.Delete("/freelancers/{freelancerID}", handlers.freelancerHandler.deleteFreelancer())
			r.Get("/freelancers/{freelancerID}/applications", handlers.freelancerHandler.getFreelancerApplications())
			r.Post("/freelancers/{freelancerID}/skills", handlers.skillHandler.addFreelancerSkill())
			r.Post("/freelancers/{freelancerID}/experiences", handlers.experienceHandler.addExperience())
			r.Delete("/experiences/{experienceID}", handlers.experienceHandler.deleteExperience())

			// Tasks
			r.Post("/tasks", handlers.taskHandler.createTask())
			r.Put("/tasks/{taskID}", handlers.taskHandler.updateTask())
			r.Delete("/tasks/{taskID}", handlers.taskHandler.deleteTask())
			r.Get("/tasks/{taskID}/applications", handlers.taskHandler.getTaskApplications())
			r.Post("/tasks/{taskID}/skills", handlers.skillHandler.addTaskSkill())

			// Applications
			r.Get("/applications/{applicationID}", handlers.applicationHandler.getApplication())
			r.Post("/applications", handlers.applicationHandler.createApplication())
			r.Put("/applications/{applicationID}", handlers.applicationHandler.updateApplication())
			r.Delete("/applications/{applicationID}", handlers.applicationHandler.deleteApplication())
			r.Post("/applications/{applicationID}/award", handlers.applicationHandler.awardApplication())

			// Contracts
			r.Get("/contracts", handlers.contractHandler.getAllContracts())
			r.Get("/contracts/{contractID}", handlers.contractHandler.getContract())
			r.Put("/contracts/{contractID}", handlers.contractHandler.updateContract())
			r.Delete("/contracts/{contractID}", handlers.contractHandler.deleteContract())
			r.Get("/contracts/{contractID}/milestones", handlers.contractHandler.getContractMilestones())
			r.Get("/contracts/{contractID}/messages", handlers.messageHandler.getContractMessages())

			// Milestones
			r.Post("/milestones", handlers.milestoneHandler.createMilestone())
			r.Put("/milestones/{milestoneID}", handlers.milestoneHandler.updateMilestone())
			r.Delete("/milestones/{milestoneID}", handlers.milestoneHandler.deleteMilestone())

			// Payments
			r.Get("/payments/{paymentID}", handlers.paymentHandler.getPayment())
			r.Post("/payments", handlers.paymentHandler.createPayment())
			r.Put("/payments/{paymentID}", handlers.paymentHandler.updatePayment())

			// Reviews
			r.Get("/reviews/{reviewID}", handlers.reviewHandler.getReview())
			r.Post("/reviews", handlers.reviewHandler.createReview())
			r.Put("/reviews/{reviewID}", handlers.reviewHandler.updateReview())

			// Complaints
			r.Get("/complaints", handlers.complaintHandler.getAllComplaints())
			r.Post("/complaints", handlers.complaintHandler.createComplaint())
			r.Put("/complaints/{complaintID}", handlers.complaintHandler.resolveComplaint())

			// Messages
			r.Post("/messages", handlers.messageHandler.createMessage())

			// Skills
			r.Post("/skills", handlers.skillHandler.createSkill())

			// Files
			r.Post("/files", handlers.fileHandler.uploadFile())
			r.Get("/files/{filename}", handlers.fileHandler.downloadFile())

			// Audit trail
			r.Get("/audit_logs", handlers.auditHandler.getAuditLogs())
		})
	})
}
