package domain

import "time"

// Role enumerates restaurant account roles.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether the role is one of the known values.
func ValidRole(r Role) bool {
	switch r {
	case RoleStaff, RoleManager, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for restaurant accounts.
type User struct {
	ID                  string
	Email               string
	FullName            string
	PasswordHash        string
	Role                Role
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
