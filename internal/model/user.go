package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Username       string    `gorm:"uniqueIndex;not null"`
	DisplayName    string    `gorm:"not null"`
	Role           string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// UserPreference stores per-user settings, currently just the pinned main board.
type UserPreference struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	MainBoardID string
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
