package member

import "errors"

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberEmailExists = errors.New("a member with this email already exists")
)
