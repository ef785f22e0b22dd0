package invite

import (
	"context"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
)

// InviteService defines the interface for invite business logic
type InviteService interface {
	// Validate reports whether token is currently redeemable. Unknown tokens
	// resolve to an invalid result rather than an error; the handler turns
	// that result into a 404.
	Validate(ctx context.Context, token string) (ValidateResponse, error)

	// Register redeems token into a new member account
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)

	// ExpireOverdue persists EXPIRED for every overdue PENDING invite and
	// returns how many were changed.
	ExpireOverdue(ctx context.Context) (int, error)
}

// RegisterResponse - POST /invites/{token}/register
type RegisterResponse struct {
	Member member.MemberResponse `json:"member"`
}
