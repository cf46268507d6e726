package domain

import "time"

// Role enumerates actor roles. A role is assigned once and never changes:
// self-registration yields customer, admin and employee accounts are
// provisioned.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// IsValid reports whether the role is one of the known variants.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

// Account is the domain model for any authenticated actor.
type Account struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	ProfileComplete bool
	Phone           *string
	Address         *string
	City            *string
	Pincode         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
