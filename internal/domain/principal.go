package domain

import (
	"strconv"
	"time"
)

// Roles a principal can hold.
const (
	RoleAdmin    = "ADMIN"
	RoleSupplier = "SUPPLIER"
)

// User is the relational account record. The graph holds a counterpart
// user node keyed by the stable external id (see ExternalID); the two are
// kept eventually consistent by the counterpart sync in PrincipalService.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExternalID returns the stable identifier used to bridge the relational
// account to its graph counterpart node.
func (u *User) ExternalID() string {
	return strconv.FormatInt(u.ID, 10)
}

// Principal is the resolved identity every core operation receives
// explicitly. The auth boundary builds it; the core never reads ambient
// request state.
type Principal struct {
	ID   string // external id (relational account id, stringified)
	Name string
	Role string
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// PrincipalFromUser builds the explicit per-call identity from an account.
func PrincipalFromUser(u *User) Principal {
	return Principal{ID: u.ExternalID(), Name: u.Name, Role: u.Role}
}

// CreateUserRequest holds parameters for creating an account.
type CreateUserRequest struct {
	Email string
	Name  string
	Role  string
}

// Validate checks that the request is well-formed.
func (r *CreateUserRequest) Validate() error {
	if r.Email == "" {
		return ErrValidation("email is required")
	}
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	if r.Role == "" {
		r.Role = RoleSupplier
	}
	if r.Role != RoleAdmin && r.Role != RoleSupplier {
		return ErrValidation("role must be ADMIN or SUPPLIER")
	}
	return nil
}

// UpdateUserRequest holds a partial account update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Email *string
	Name  *string
	Role  *string
}

// Validate checks that the request is well-formed.
func (r *UpdateUserRequest) Validate() error {
	if r.Email != nil && *r.Email == "" {
		return ErrValidation("email must not be empty")
	}
	if r.Name != nil && *r.Name == "" {
		return ErrValidation("name must not be empty")
	}
	if r.Role != nil && *r.Role != RoleAdmin && *r.Role != RoleSupplier {
		return ErrValidation("role must be ADMIN or SUPPLIER")
	}
	return nil
}
