package model

// Role определяет уровень доступа пользователя к доске.
// Нулевое значение означает отсутствие членства.
type Role string

const (
	RoleNone    Role = ""
	RoleViewer  Role = "viewer"  // может только просматривать
	RoleEditor  Role = "editor"  // может редактировать содержимое доски
	RoleCreator Role = "creator" // полный контроль, ровно один на доску
)

var roleRank = map[Role]int{
	RoleViewer:  1,
	RoleEditor:  2,
	RoleCreator: 3,
}

// Known reports whether r is one of the three defined roles.
func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the permissions of other.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// Assignable reports whether r may be granted through invite or role update.
// The creator role is set once at board creation and never reassigned.
func (r Role) Assignable() bool {
	return r == RoleEditor || r == RoleViewer
}
