package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InviteHandler interface {
	// Public endpoints
	Validate(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
}

type inviteHandlerImpl struct {
	inviteService invite.InviteService
}

func NewInviteHandler(inviteService invite.InviteService) InviteHandler {
	return &inviteHandlerImpl{
		inviteService: inviteService,
	}
}

// Validate implements InviteHandler.
func (h *inviteHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	result, err := h.inviteService.Validate(r.Context(), token)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	switch result.Reason {
	case invite.ReasonInvalid:
		response.NotFound(w, "Invite not found")
	case invite.ReasonUsed:
		response.Gone(w, "Invite has already been used", result)
	case invite.ReasonExpired:
		response.Gone(w, "Invite has expired", result)
	default:
		response.Success(w, result)
	}
}

// Register implements InviteHandler.
func (h *inviteHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req invite.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Token = chi.URLParam(r, "token")

	result, err := h.inviteService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Registration completed successfully", result)
}
