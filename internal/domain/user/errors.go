package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrIncorrectPassword       = errors.New("incorrect old password")
	ErrInvalidRole             = errors.New("invalid role")
	ErrAdminAccessRequired     = errors.New("admin access required")
	ErrSelfOrAdminRequired     = errors.New("you can only access your own records")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
