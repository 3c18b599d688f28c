package models

import "strings"

// Role describes a member's standing inside one workspace.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
	RoleCommenter   Role = "commenter"
	RoleReader      Role = "reader"

	// RoleAdmin is honoured as a manager role when present on a membership but
	// is not assignable through the member-update API.
	RoleAdmin Role = "admin"
)

// ManagerRoles lists roles that grant member-management rights outright.
var ManagerRoles = map[Role]struct{}{
	RoleOwner: {},
	RoleAdmin: {},
}

// AssignableRoles enumerates roles accepted by member-update requests.
var AssignableRoles = []Role{RoleParticipant, RoleCommenter, RoleReader}

// ParseRole normalises a raw role string.
func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// IsManager reports whether the role carries manage-members rights on its own.
func (r Role) IsManager() bool {
	_, ok := ManagerRoles[Role(strings.ToLower(string(r)))]
	return ok
}

// IsAssignable reports whether the role may be set via a member update.
func (r Role) IsAssignable() bool {
	for _, candidate := range AssignableRoles {
		if r == candidate {
			return true
		}
	}
	return false
}
