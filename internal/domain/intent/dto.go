package intent

import (
	"strings"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/validator"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// CreateRequest - POST /intents
type CreateRequest struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if !validator.LengthBetween(r.FullName, 3, 120) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must be between 3 and 120 characters",
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

	if r.Notes != nil && !validator.MaxLength(*r.Notes, 1000) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must be at most 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListRequest - GET /admin/intents
type ListRequest struct {
	Status   *string
	Page     int
	PageSize int
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil {
		if _, err := ParseStatus(*r.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of PENDING, APPROVED, REJECTED",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ApplyDefaults fills page and page_size when missing or below 1
func (r *ListRequest) ApplyDefaults() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
}

// ReviewRequest - POST /admin/intents/{id}/approve and /reject
type ReviewRequest struct {
	IntentID   string `json:"-"` // From Chi URL param
	ReviewerID string `json:"-"` // From admin credentials
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.IntentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if validator.IsEmpty(r.ReviewerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "reviewer_id",
			Message: "reviewer_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IntentResponse represents intent data in API responses
type IntentResponse struct {
	ID         string                 `json:"id"`
	FullName   string                 `json:"full_name"`
	Email      string                 `json:"email"`
	Phone      *string                `json:"phone"`
	Notes      *string                `json:"notes"`
	Status     string                 `json:"status"`
	CreatedAt  string                 `json:"created_at"`
	ReviewedAt *string                `json:"reviewed_at"`
	ReviewedBy *string                `json:"reviewed_by"`
	Invite     *invite.InviteResponse `json:"invite,omitempty"`
}

type ListResponse struct {
	Items      []IntentResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type ApproveResponse struct {
	Intent IntentResponse        `json:"intent"`
	Invite invite.InviteResponse `json:"invite"`
}
