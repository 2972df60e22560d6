package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Board is the aggregate root: it owns its cards by value, ordered by position.
// Widgets reference the board by id and have their own lifecycle.
type Board struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"not null"`
	Headline    string    `gorm:"not null"`
	BoardName   string    `gorm:"not null"`
	BoardURL    string    `gorm:"uniqueIndex;not null"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
	Version     int64     `gorm:"not null;default:0"`

	Cards []Card `gorm:"foreignKey:BoardID;references:ID;constraint:OnDelete:CASCADE"`
}

type Card struct {
	BoardID  string `gorm:"primaryKey"`
	ID       string `gorm:"primaryKey"`
	Label    string `gorm:"not null"`
	Href     string `gorm:"not null"`
	Position int    `gorm:"not null"`
}

var boardURLPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NormalizeBoardURL trims and lower-cases a slug and rejects anything that is not
// lowercase letters, numbers, and single hyphens.
func NormalizeBoardURL(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if !boardURLPattern.MatchString(normalized) {
		return "", fmt.Errorf("board_url must use lowercase letters, numbers, and single hyphens")
	}
	return normalized, nil
}

// CheckNoDuplicateCardIDs reports the first repeated card id in a submitted list.
func CheckNoDuplicateCardIDs(cards []Card) error {
	seen := make(map[string]struct{}, len(cards))
	for _, card := range cards {
		if _, ok := seen[card.ID]; ok {
			return fmt.Errorf("cards contain duplicate id: %s", card.ID)
		}
		seen[card.ID] = struct{}{}
	}
	return nil
}
