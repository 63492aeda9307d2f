// Package identity models the caller identity handed to every business operation.
// Authentication happens outside this module; operations trust the supplied Caller.
package identity

import (
	"fmt"
	"strings"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the caller's role within the service center
type Role string

const (
	RoleAdvisor    Role = "ADVISOR"
	RoleTechnician Role = "TECHNICIAN"
	RoleCustomer   Role = "CUSTOMER"
	RoleAdmin      Role = "ADMIN"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdvisor, RoleTechnician, RoleCustomer, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown role %q", s))
	}
	return r, nil
}

// Caller is the identity performing an operation
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// NewCaller builds a Caller, validating both fields
func NewCaller(userID uuid.UUID, role Role) (Caller, error) {
	if userID == uuid.Nil {
		return Caller{}, shared.NewDomainError(shared.CodeUnauthorized, "caller user id is required")
	}
	if !role.IsValid() {
		return Caller{}, shared.NewDomainError(shared.CodeUnauthorized, fmt.Sprintf("unknown role %q", role))
	}
	return Caller{UserID: userID, Role: role}, nil
}

// Is reports whether the caller holds one of the given roles
func (c Caller) Is(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// IsAdvisor is true for advisors and admins; admins may act wherever an advisor may
func (c Caller) IsAdvisor() bool {
	return c.Is(RoleAdvisor, RoleAdmin)
}

// Require fails with FORBIDDEN unless the caller holds one of roles
func (c Caller) Require(action string, roles ...Role) error {
	if c.Is(roles...) {
		return nil
	}
	return shared.NewDomainError(shared.CodeForbidden,
		fmt.Sprintf("role %s may not %s", c.Role, action))
}

// RequireAdvisor fails with FORBIDDEN unless the caller is an advisor or admin
func (c Caller) RequireAdvisor(action string) error {
	return c.Require(action, RoleAdvisor, RoleAdmin)
}
