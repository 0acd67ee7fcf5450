package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership представляет связь между пользователем и доской.
// Составной ключ (board_id, user_id): не больше одной роли на пользователя.
type Membership struct {
	BoardID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      Role      `gorm:"not null;check:role IN ('creator', 'editor', 'viewer')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

func (Membership) TableName() string {
	return "memberships"
}
