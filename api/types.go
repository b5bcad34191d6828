package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler        authHandler
	clientHandler      clientHandler
	freelancerHandler  freelancerHandler
	taskHandler        taskHandler
	applicationHandler applicationHandler
	contractHandler    contractHandler
	milestoneHandler   milestoneHandler
	paymentHandler     paymentHandler
	reviewHandler      reviewHandler
	complaintHandler   complaintHandler
	messageHandler     messageHandler
	skillHandler       skillHandler
	experienceHandler  experienceHandler
	fileHandler        fileHandler
	auditHandler       auditHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}
