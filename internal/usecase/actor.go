package usecase

import (
	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation, resolved from the access token.
type Actor struct {
	UserID uuid.UUID
	Roles  entity.Roles
}

// IsAdmin reports whether the caller carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Roles.Contains(entity.RoleAdmin)
}

// CanAccess reports whether the caller owns the record or is an admin.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.UserID == ownerID || a.IsAdmin()
}
