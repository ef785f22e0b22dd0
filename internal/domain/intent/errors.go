package intent

import "errors"

var (
	ErrIntentNotFound         = errors.New("intent not found")
	ErrIntentEmailExists      = errors.New("an intent with this email already exists")
	ErrIntentCannotBeApproved = errors.New("intent cannot be approved: it has already been reviewed")
	ErrIntentCannotBeRejected = errors.New("intent cannot be rejected: it has already been reviewed")
	ErrIntentAlreadyReviewed  = errors.New("intent has already been reviewed")
	ErrInvalidStatus          = errors.New("invalid intent status")
)
