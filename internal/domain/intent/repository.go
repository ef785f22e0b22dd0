package intent

import (
	"context"
	"time"
)

type CreateParams struct {
	FullName string
	Email    string
	Phone    *string
	Notes    *string
}

type ListFilter struct {
	Status   *Status
	Page     int
	PageSize int
}

type UpdateStatusParams struct {
	ID         string
	Status     Status
	ReviewedBy string
	ReviewedAt time.Time
}

// IntentRepository defines the interface for intent data access
type IntentRepository interface {
	// Create stores a new PENDING intent
	Create(ctx context.Context, params CreateParams) (Intent, error)

	// GetByID includes the invite when one exists
	GetByID(ctx context.Context, id string) (Intent, error)

	// GetLatestByEmail returns the most recently created intent for email
	GetLatestByEmail(ctx context.Context, email string) (Intent, error)

	// List returns one page sorted by created_at DESC and the unpaged total
	List(ctx context.Context, filter ListFilter) ([]Intent, int64, error)

	// UpdateStatus applies a review only while the intent is PENDING.
	// Returns ErrIntentNotFound for unknown ids and ErrIntentAlreadyReviewed
	// when another review won.
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (Intent, error)
}
