// Package authz содержит чистые проверки прав доступа к доске.
// Никакого состояния: на вход роль (или её отсутствие), на выход nil или ошибка.
package authz

import (
	"errors"

	"github.com/EnrikeM/Miro/internal/model"
)

var (
	// ErrNotMember is returned when the user holds no role on the board at all.
	ErrNotMember = errors.New("user is not a member of the board")

	// ErrInsufficientRole is returned when the user has a role, but not a high enough one.
	ErrInsufficientRole = errors.New("role does not permit this action")
)

// CheckMembership passes for any known role.
func CheckMembership(role model.Role) error {
	if !role.Known() {
		return ErrNotMember
	}
	return nil
}

// CheckEditOrAbove passes for editors and the creator; viewers are rejected.
func CheckEditOrAbove(role model.Role) error {
	if !role.Known() {
		return ErrNotMember
	}
	if !role.AtLeast(model.RoleEditor) {
		return ErrInsufficientRole
	}
	return nil
}

// CheckCreator passes only for the creator. A missing role yields ErrNotMember
// rather than ErrInsufficientRole so callers can distinguish "no access at all"
// from "member without enough rights".
func CheckCreator(role model.Role) error {
	if !role.Known() {
		return ErrNotMember
	}
	if role != model.RoleCreator {
		return ErrInsufficientRole
	}
	return nil
}
