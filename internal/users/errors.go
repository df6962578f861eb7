package users

import "errors"

// Domain-level error values returned by account operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user with this phone or pubg_id already exists")
	ErrBlocked            = errors.New("user is blocked")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
