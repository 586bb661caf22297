package domain

import "time"

// UserRole enumerates the flat role model. Rangers report issues, engineers
// work them, admins and super admins carry override privileges.
type UserRole string

const (
	RoleRanger     UserRole = "ranger"
	RoleEngineer   UserRole = "engineer"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// ValidRole reports whether the value is an enumerated role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleRanger, RoleEngineer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role carries override privileges over
// ownership checks.
func (r UserRole) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is the domain model for accounts referenced by issues, ledger
// entries, comments and attachments.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the resolved reference form used in populated responses.
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
