package repository

import (
	"context"
	"time"

	"linkboard/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CardClickCount is one row of the per-card click ranking.
type CardClickCount struct {
	CardID     string `json:"cardId"`
	ClickCount int64  `json:"clickCount"`
}

func (r *EventRepository) CreateClick(ctx context.Context, event *model.ClickEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) CreateView(ctx context.Context, event *model.ViewEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *EventRepository) CountClicksByBoard(ctx context.Context, boardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ClickEvent{}).
		Where("board_id = ?", boardID).
		Count(&count).Error
	return count, err
}

// CountClicksByCard groups the board's clicks per card, most clicked first,
// ties broken by card id ascending so the ranking is reproducible.
func (r *EventRepository) CountClicksByCard(ctx context.Context, boardID string) ([]CardClickCount, error) {
	var rows []CardClickCount
	err := r.db.WithContext(ctx).Model(&model.ClickEvent{}).
		Select("card_id, COUNT(*) AS click_count").
		Where("board_id = ?", boardID).
		Group("card_id").
		Order("click_count DESC, card_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *EventRepository) CountViewsByBoard(ctx context.Context, boardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ViewEvent{}).
		Where("board_id = ?", boardID).
		Count(&count).Error
	return count, err
}

func (r *EventRepository) CountViewsSince(ctx context.Context, boardID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ViewEvent{}).
		Where("board_id = ? AND occurred_at >= ?", boardID, since).
		Count(&count).Error
	return count, err
}
