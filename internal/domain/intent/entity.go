package intent

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
)

// Status represents the review status of an intent
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown intent status %q", s)
	}
}

// Intent is a prospective member's application awaiting review
type Intent struct {
	ID         string
	FullName   string
	Email      string
	Phone      *string
	Notes      *string
	Status     Status
	CreatedAt  time.Time
	ReviewedAt *time.Time
	ReviewedBy *string

	// Invite is populated only by reads that join the invite row
	Invite *invite.Invite
}

func (i *Intent) IsPending() bool {
	return i.Status == StatusPending
}

func (i *Intent) IsApproved() bool {
	return i.Status == StatusApproved
}

func (i *Intent) IsRejected() bool {
	return i.Status == StatusRejected
}

// CanBeApproved checks if the intent is still awaiting review
func (i *Intent) CanBeApproved() bool {
	return i.IsPending()
}

func (i *Intent) CanBeRejected() bool {
	return i.IsPending()
}

func (i *Intent) ToResponse() IntentResponse {
	resp := IntentResponse{
		ID:         i.ID,
		FullName:   i.FullName,
		Email:      i.Email,
		Phone:      i.Phone,
		Notes:      i.Notes,
		Status:     string(i.Status),
		CreatedAt:  i.CreatedAt.UTC().Format(time.RFC3339),
		ReviewedBy: i.ReviewedBy,
	}
	if i.ReviewedAt != nil {
		reviewedAt := i.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	if i.Invite != nil {
		inv := i.Invite.ToResponse()
		resp.Invite = &inv
	}
	return resp
}
