// internal/domain/models/roles.go
package models

import (
	"errors"
	"strings"
)

// Role is one of the fixed account roles. The set is closed; values outside
// it are rejected by ParseRole and by the users collection validator.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleManager           Role = "manager"
	RoleFinance           Role = "finance"
	RoleOperationsManager Role = "operations_manager"
	RoleIntern            Role = "intern"
	RoleDataOperator      Role = "data_operator"
)

// DefaultRole is assigned to accounts registered without an explicit role.
const DefaultRole = RoleDataOperator

var allRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleFinance,
	RoleOperationsManager,
	RoleIntern,
	RoleDataOperator,
}

// ErrUnknownRole is returned by ParseRole for values outside the role set.
var ErrUnknownRole = errors.New("unknown role")

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// RoleNames returns the role values as plain strings (for schema enums).
func RoleNames() []string {
	out := make([]string, 0, len(allRoles))
	for _, r := range allRoles {
		out = append(out, string(r))
	}
	return out
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, k := range allRoles {
		if r == k {
			return true
		}
	}
	return false
}

// ParseRole trims and lowercases s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}
