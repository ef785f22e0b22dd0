package invite

import (
	"strings"

	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/validator"
)

// Reasons reported by a failed validation
const (
	ReasonInvalid = "invalid"
	ReasonUsed    = "used"
	ReasonExpired = "expired"
)

// InviteResponse represents invite data in API responses
type InviteResponse struct {
	ID        string `json:"id"`
	IntentID  string `json:"intent_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ValidateResponse - GET /invites/{token}
type ValidateResponse struct {
	Valid     bool    `json:"valid"`
	Reason    string  `json:"reason,omitempty"`
	IntentID  *string `json:"intent_id,omitempty"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// RegisterRequest - POST /invites/{token}/register
type RegisterRequest struct {
	Token    string  `json:"-"` // From Chi URL param
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Password string  `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if !validator.LengthBetween(r.Name, 3, 120) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be between 3 and 120 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(strings.TrimSpace(r.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if r.Phone != nil && !validator.IsEmpty(*r.Phone) && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "invalid phone number",
		})
	}

	if r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	} else if len(r.Password) > 128 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at most 128 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
