package model

import "time"

// SystemSettings is a singleton row holding the boards the system-wide routes
// resolve to.
type SystemSettings struct {
	ID                    int16  `gorm:"primaryKey"`
	GlobalHomepageBoardID string `gorm:"not null"`
	GlobalInsightsBoardID string `gorm:"not null"`
	GlobalSettingsBoardID string `gorm:"not null"`
	GlobalSigninBoardID   string `gorm:"not null"`
	GlobalSignupBoardID   string `gorm:"not null"`
	UpdatedAt             time.Time
}

const SystemSettingsSingletonID int16 = 1
