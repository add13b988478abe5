// README: User aggregate with role assignments.
package user

import (
	"time"

	"fleetops/internal/types"
)

// Role names seeded by the initial migration.
const (
	RoleAdmin         = "admin"
	RoleFleetManager  = "fleet_manager"
	RoleDispatcher    = "dispatcher"
	RoleSafetyOfficer = "safety_officer"
)

type User struct {
	ID           types.ID
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	Roles        []string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
