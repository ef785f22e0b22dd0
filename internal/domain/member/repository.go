package member

import "context"

type CreateParams struct {
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	Role         Role
	Status       Status
}

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	// Create fails with ErrMemberEmailExists on a duplicate email
	Create(ctx context.Context, params CreateParams) (Member, error)

	GetByID(ctx context.Context, id string) (Member, error)

	// GetByEmail matches the email exactly, case-sensitive
	GetByEmail(ctx context.Context, email string) (Member, error)
}
