package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Checks in, applies for leave
	RoleAdmin    Role = "admin"    // Manager: overrides attendance, decides leave, views reports
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user holds the manager role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
