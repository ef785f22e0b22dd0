package invite

import (
	"context"
	"time"
)

type CreateParams struct {
	IntentID  string
	Token     string
	ExpiresAt time.Time
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create stores a PENDING invite. Fails with ErrInviteAlreadyExists when the
	// intent already has one and ErrTokenConflict on a duplicate token.
	Create(ctx context.Context, params CreateParams) (Invite, error)

	GetByToken(ctx context.Context, token string) (Invite, error)

	GetByIntentID(ctx context.Context, intentID string) (Invite, error)

	// UpdateStatus overwrites the status. Returns ErrInviteNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id string, status Status) (Invite, error)

	// MarkUsed transitions a PENDING invite with expires_at >= now to USED in a
	// single conditional write. Returns ErrInviteNotRedeemable when the invite
	// exists but no longer qualifies.
	MarkUsed(ctx context.Context, id string, now time.Time) (Invite, error)

	// Expire transitions a PENDING invite with expires_at before now to EXPIRED.
	// Returns ErrInviteNotRedeemable when the invite exists but is no longer
	// PENDING or not yet overdue.
	Expire(ctx context.Context, id string, now time.Time) (Invite, error)

	// ExpireOverdue marks every PENDING invite with expires_at before now as
	// EXPIRED and returns the invites it changed.
	ExpireOverdue(ctx context.Context, now time.Time) ([]Invite, error)
}
