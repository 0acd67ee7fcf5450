package authz_test

import (
	"testing"

	"github.com/EnrikeM/Miro/internal/authz"
	"github.com/EnrikeM/Miro/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCheckMembership(t *testing.T) {
	// Любая известная роль проходит, отсутствие роли — нет
	assert.NoError(t, authz.CheckMembership(model.RoleCreator))
	assert.NoError(t, authz.CheckMembership(model.RoleEditor))
	assert.NoError(t, authz.CheckMembership(model.RoleViewer))

	assert.ErrorIs(t, authz.CheckMembership(model.RoleNone), authz.ErrNotMember)
	assert.ErrorIs(t, authz.CheckMembership(model.Role("admin")), authz.ErrNotMember)
}

func TestCheckEditOrAbove(t *testing.T) {
	assert.NoError(t, authz.CheckEditOrAbove(model.RoleCreator))
	assert.NoError(t, authz.CheckEditOrAbove(model.RoleEditor))

	// viewer имеет роль, но недостаточную
	assert.ErrorIs(t, authz.CheckEditOrAbove(model.RoleViewer), authz.ErrInsufficientRole)
	assert.ErrorIs(t, authz.CheckEditOrAbove(model.RoleNone), authz.ErrNotMember)
}

func TestCheckCreator(t *testing.T) {
	assert.NoError(t, authz.CheckCreator(model.RoleCreator))

	assert.ErrorIs(t, authz.CheckCreator(model.RoleEditor), authz.ErrInsufficientRole)
	assert.ErrorIs(t, authz.CheckCreator(model.RoleViewer), authz.ErrInsufficientRole)

	// Отсутствие роли отличимо от недостаточной роли
	assert.ErrorIs(t, authz.CheckCreator(model.RoleNone), authz.ErrNotMember)
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, model.RoleCreator.AtLeast(model.RoleEditor))
	assert.True(t, model.RoleEditor.AtLeast(model.RoleViewer))
	assert.False(t, model.RoleViewer.AtLeast(model.RoleEditor))
	assert.False(t, model.RoleNone.AtLeast(model.RoleViewer))
}

func TestRoleAssignable(t *testing.T) {
	assert.True(t, model.RoleEditor.Assignable())
	assert.True(t, model.RoleViewer.Assignable())

	// Роль creator нельзя выдать через приглашение или смену роли
	assert.False(t, model.RoleCreator.Assignable())
	assert.False(t, model.RoleNone.Assignable())
}
