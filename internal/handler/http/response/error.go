package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Intent domain errors
	case errors.Is(err, intent.ErrIntentNotFound):
		NotFound(w, "Intent not found")
	case errors.Is(err, intent.ErrIntentEmailExists):
		Conflict(w, "An intent with this email already exists")
	case errors.Is(err, intent.ErrIntentCannotBeApproved),
		errors.Is(err, intent.ErrIntentCannotBeRejected),
		errors.Is(err, intent.ErrIntentAlreadyReviewed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, intent.ErrInvalidStatus):
		BadRequest(w, "Invalid intent status", nil)

	// Invite domain errors
	case errors.Is(err, invite.ErrInviteNotFound):
		NotFound(w, "Invite not found")
	case errors.Is(err, invite.ErrInviteExpired):
		Gone(w, "Invite has expired", nil)
	case errors.Is(err, invite.ErrInviteAlreadyUsed),
		errors.Is(err, invite.ErrInviteNotRedeemable):
		Gone(w, "Invite has already been used", nil)
	case errors.Is(err, invite.ErrInviteAlreadyExists):
		Conflict(w, "Intent already has an invite")
	case errors.Is(err, invite.ErrTokenConflict):
		Conflict(w, "Invite token collision, retry the approval")
	case errors.Is(err, invite.ErrEmailMismatch):
		BadRequest(w, "Email does not match the approved request", map[string]string{
			"email": err.Error(),
		})

	// Member domain errors
	case errors.Is(err, member.ErrMemberNotFound):
		NotFound(w, "Member not found")
	case errors.Is(err, member.ErrMemberEmailExists):
		Conflict(w, "Email already registered")

	// Admin credentials
	case errors.Is(err, jwt.ErrInvalidAdminToken):
		Unauthorized(w, "Invalid admin credentials")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
