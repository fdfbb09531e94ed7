package user

import "context"

type UserService interface {
	GetProfile(ctx context.Context, userID string) (UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error

	// ListEmployees returns every account ordered by name (manager view).
	ListEmployees(ctx context.Context) ([]UserResponse, error)
	UpdateEmployee(ctx context.Context, userID string, req UpdateEmployeeRequest) (UserResponse, error)
}
