package model

import (
	"fmt"
	"strings"
)

// Role represents the account type of an authenticated user
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleEmployer  Role = "EMPLOYER"
	RoleApplicant Role = "APPLICANT"
)

// Roles returns every known role in display order
func Roles() []Role {
	return []Role{RoleApplicant, RoleEmployer, RoleAdmin}
}

// ParseRole converts a wire value into a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the closed set of roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleApplicant:
		return true
	}
	return false
}

// SelfService reports whether an account of this role may be created through registration.
// Admin accounts are provisioned out of band.
func (r Role) SelfService() bool {
	switch r {
	case RoleEmployer, RoleApplicant:
		return true
	case RoleAdmin:
		return false
	default:
		return false
	}
}

// Label returns the human-facing name of the role
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleEmployer:
		return "Employer"
	case RoleApplicant:
		return "Job Seeker"
	default:
		return "Unknown"
	}
}

// UnmarshalText normalizes role values coming off the wire
func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
