package invite

import (
	"fmt"
	"time"
)

// Status represents the status of an invite
type Status string

const (
	StatusPending Status = "PENDING"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

// ParseStatus converts s into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusUsed, StatusExpired:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown invite status %q", s)
	}
}

// Invite is the single-use redemption token minted when an intent is approved
type Invite struct {
	ID        string
	IntentID  string
	Token     string
	ExpiresAt time.Time
	Status    Status
	CreatedAt time.Time
}

func (i *Invite) IsPending() bool {
	return i.Status == StatusPending
}

func (i *Invite) IsUsed() bool {
	return i.Status == StatusUsed
}

// IsExpired checks expiry against the current time
func (i *Invite) IsExpired() bool {
	return i.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the invite is expired at now. An invite is
// still valid at exactly ExpiresAt.
func (i *Invite) IsExpiredAt(now time.Time) bool {
	return i.Status == StatusExpired || now.After(i.ExpiresAt)
}

func (i *Invite) IsValid() bool {
	return i.IsValidAt(time.Now())
}

func (i *Invite) IsValidAt(now time.Time) bool {
	return i.IsPending() && !i.IsExpiredAt(now)
}

// CanBeUsed checks if the invite can be redeemed
func (i *Invite) CanBeUsed() bool {
	return i.IsValid()
}

func (i *Invite) CanBeUsedAt(now time.Time) bool {
	return i.IsValidAt(now)
}

func (i *Invite) ToResponse() InviteResponse {
	return InviteResponse{
		ID:        i.ID,
		IntentID:  i.IntentID,
		Token:     i.Token,
		ExpiresAt: i.ExpiresAt.UTC().Format(time.RFC3339),
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt.UTC().Format(time.RFC3339),
	}
}
