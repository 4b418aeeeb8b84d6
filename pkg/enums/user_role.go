package enums

import "fmt"

// UserRole represents a dashboard permissions role.
type UserRole string

const (
	UserRoleSuper UserRole = "super-user"
	UserRoleAdmin UserRole = "administrator"
	UserRoleBasic UserRole = "basic"
)

var validUserRoles = []UserRole{
	UserRoleSuper,
	UserRoleAdmin,
	UserRoleBasic,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// UserRoles lists every assignable role for the roles endpoint.
func UserRoles() []UserRole {
	out := make([]UserRole, len(validUserRoles))
	copy(out, validUserRoles)
	return out
}
