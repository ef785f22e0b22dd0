package invite

import "errors"

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteExpired       = errors.New("invite has expired")
	ErrInviteAlreadyUsed   = errors.New("invite has already been used")
	ErrInviteNotRedeemable = errors.New("invite is no longer redeemable")
	ErrInviteAlreadyExists = errors.New("an invite already exists for this intent")
	ErrTokenConflict       = errors.New("invite token already in use")
	ErrEmailMismatch       = errors.New("email does not match the approved request")
)
