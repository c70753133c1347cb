package domain

import "fmt"

// Role is the closed set of caller roles.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleEmployee, RoleAgent, RoleAdmin}

// ParseRole converts a wire value into a Role.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// In reports whether r is a member of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
