package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/taskhive-dev/taskhive-backend/database"
	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	sessions  sessions
}

func newAuthHandler(db database.Database, sessions sessions) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		sessions:  sessions,
	}
}

type loginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role,omitempty"`
}

type currentUserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// login checks the credentials against the account table for the requested
// role and sets the session cookie. When no role is given each table is tried
// in turn.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Email == "" {
			h.responder.WriteError(w, errs.NewMissingField("email"))
			return
		}
		if req.Password == "" {
			h.responder.WriteError(w, errs.NewMissingField("password"))
			return
		}
		if req.Role != "" && !req.Role.Valid() {
			h.responder.WriteError(w, errs.NewValidation("role", "unknown role"))
			return
		}

		account, err := h.findAccount(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if account == nil {
			h.responder.WriteError(w, errs.NewUnauthorized("invalid email or password"))
			return
		}

		token, err := h.sessions.mint(services.Caller{ID: account.caller.ID, Role: account.caller.Role})
		if err != nil {
			h.responder.WriteError(w, errs.NewInternal("minting session token", err))
			return
		}
		h.sessions.setCookie(w, token)

		h.logger.Info().
			Str("email", req.Email).
			Str("role", string(account.caller.Role)).
			Msg("login")

		h.responder.WriteJSON(w, currentUserResponse{
			ID:    account.caller.ID.String(),
			Name:  account.name,
			Email: account.email,
			Role:  account.caller.Role,
		})
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clearCookie(w)
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "logged out",
		})
	}
}

// currentUser returns the profile of the logged-in account.
func (h authHandler) currentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetCaller(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var resp currentUserResponse
		switch caller.Role {
		case models.RoleClient:
			client, err := h.db.ClientRepo().FindByID(caller.ID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "client", err))
				return
			}
			resp = currentUserResponse{ID: client.ID.String(), Name: client.Name, Email: client.Email, Role: caller.Role}
		case models.RoleFreelancer:
			freelancer, err := h.db.FreelancerRepo().FindByID(caller.ID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "freelancer", err))
				return
			}
			resp = currentUserResponse{ID: freelancer.ID.String(), Name: freelancer.Name, Email: freelancer.Email, Role: caller.Role}
		case models.RoleAdmin:
			admin, err := h.db.AdminRepo().FindByID(caller.ID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "admin", err))
				return
			}
			resp = currentUserResponse{ID: admin.ID.String(), Name: admin.Name, Email: admin.Email, Role: caller.Role}
		default:
			h.responder.WriteError(w, errs.NewUnauthorized("invalid session"))
			return
		}

		h.responder.WriteJSON(w, resp)
	}
}

type foundAccount struct {
	caller services.Caller
	name   string
	email  string
}

// findAccount looks the email up in the account table matching req.Role, or in
// every table when the role is unset. A nil result with a nil error means the
// credentials did not match anything.
func (h authHandler) findAccount(req loginRequest) (*foundAccount, error) {
	tryClient := req.Role == "" || req.Role == models.RoleClient
	tryFreelancer := req.Role == "" || req.Role == models.RoleFreelancer
	tryAdmin := req.Role == "" || req.Role == models.RoleAdmin

	if tryClient {
		client, err := h.db.ClientRepo().FindByEmail(req.Email)
		if err != nil {
			return nil, wrapDatabaseError("find", "client", err)
		}
		if client != nil && services.CheckPassword(client.PasswordHash, req.Password) {
			return &foundAccount{
				caller: services.Caller{ID: client.ID, Role: models.RoleClient},
				name:   client.Name,
				email:  client.Email,
			}, nil
		}
	}
	if tryFreelancer {
		freelancer, err := h.db.FreelancerRepo().FindByEmail(req.Email)
		if err != nil {
			return nil, wrapDatabaseError("find", "freelancer", err)
		}
		if freelancer != nil && services.CheckPassword(freelancer.PasswordHash, req.Password) {
			return &foundAccount{
				caller: services.Caller{ID: freelancer.ID, Role: models.RoleFreelancer},
				name:   freelancer.Name,
				email:  freelancer.Email,
			}, nil
		}
	}
	if tryAdmin {
		admin, err := h.db.AdminRepo().FindByEmail(req.Email)
		if err != nil {
			return nil, wrapDatabaseError("find", "admin", err)
		}
		if admin != nil && services.CheckPassword(admin.PasswordHash, req.Password) {
			return &foundAccount{
				caller: services.Caller{ID: admin.ID, Role: models.RoleAdmin},
				name:   admin.Name,
				email:  admin.Email,
			}, nil
		}
	}
	return nil, nil
}
