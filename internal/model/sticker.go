package model

import (
	"github.com/google/uuid"
)

type Sticker struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index"`
	X       int       `gorm:"not null"`
	Y       int       `gorm:"not null"`
	Width   int       `gorm:"not null"`
	Height  int       `gorm:"not null"`
	Text    string
	Color   string `gorm:"not null"`

	Board Board `gorm:"foreignKey:BoardID"`
}
