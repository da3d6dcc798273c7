// Package policy decides which roles may change the ship registry.
package policy

import (
	"errors"

	"github.com/mcoot/kapal-registry/internal/model"
)

// ErrPermissionDenied is returned when an authenticated identity lacks the
// role required for an operation
var ErrPermissionDenied = errors.New("permission denied")

// CanMutate reports whether the role may create, update or delete ship records
func CanMutate(role model.Role) bool {
	return role == model.RoleAdmin
}

// Authorize returns ErrPermissionDenied unless the role may mutate records
func Authorize(role model.Role) error {
	if !CanMutate(role) {
		return ErrPermissionDenied
	}
	return nil
}
