package model

import "time"

// ClickEvent and ViewEvent are append-only; the application never updates or
// deletes them.
type ClickEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	BoardID    string    `gorm:"not null;index"`
	CardID     string    `gorm:"not null"`
	OccurredAt time.Time `gorm:"not null"`
	SourceIP   string    `gorm:"not null"`
}

type ViewEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	BoardID    string    `gorm:"not null;index"`
	OccurredAt time.Time `gorm:"not null"`
	SourceIP   string    `gorm:"not null"`
	Source     string    `gorm:"not null"`
	DeviceType string    `gorm:"not null"`
}
