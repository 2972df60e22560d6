package repository

import (
	"context"
	"errors"
	"fmt"

	"linkboard/internal/model"

	"gorm.io/gorm"
)

type WidgetRepository struct {
	db *gorm.DB
}

func NewWidgetRepository(db *gorm.DB) *WidgetRepository {
	return &WidgetRepository{db: db}
}

// WidgetSyncItem is one entry of a desired widget list: an existing widget
// (ID set) to update, or a new one (ID nil) to create for the board.
type WidgetSyncItem struct {
	ID     *int64
	Widget model.Widget
}

func (r *WidgetRepository) GetByBoardID(ctx context.Context, boardID string) ([]model.Widget, error) {
	var widgets []model.Widget
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("sort_order, id").
		Find(&widgets).Error
	return widgets, err
}

func (r *WidgetRepository) GetByIDAndBoardID(ctx context.Context, id int64, boardID string) (*model.Widget, error) {
	var widget model.Widget
	err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", id, boardID).
		First(&widget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &widget, nil
}

func (r *WidgetRepository) Create(ctx context.Context, widget *model.Widget) error {
	return r.db.WithContext(ctx).Create(widget).Error
}

func (r *WidgetRepository) Update(ctx context.Context, widget *model.Widget) error {
	return r.db.WithContext(ctx).Save(widget).Error
}

func (r *WidgetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Widget{}, id).Error
}

// Sync reconciles the board's stored widgets against the submitted desired
// list in one transaction. Items carrying an id must match an existing widget
// for the board (ErrWidgetNotFound otherwise, nothing committed); items without
// an id become new widgets. Every pre-existing widget absent from the list is
// deleted. Returns the board's resulting widgets in sort order.
func (r *WidgetRepository) Sync(ctx context.Context, boardID string, items []WidgetSyncItem) ([]model.Widget, error) {
	var result []model.Widget
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.Widget
		if err := tx.Where("board_id = ?", boardID).Order("sort_order, id").Find(&existing).Error; err != nil {
			return err
		}

		byID := make(map[int64]*model.Widget, len(existing))
		for i := range existing {
			byID[existing[i].ID] = &existing[i]
		}

		kept := make(map[int64]struct{}, len(items))
		for _, item := range items {
			var widget *model.Widget
			if item.ID != nil {
				widget = byID[*item.ID]
				if widget == nil {
					return fmt.Errorf("%w: widget %d", ErrWidgetNotFound, *item.ID)
				}
			} else {
				widget = &model.Widget{BoardID: boardID}
			}

			widget.Type = item.Widget.Type
			widget.Title = item.Widget.Title
			widget.Layout = item.Widget.Layout
			widget.ConfigJSON = item.Widget.ConfigJSON
			widget.Enabled = item.Widget.Enabled
			widget.SortOrder = item.Widget.SortOrder

			if err := tx.Save(widget).Error; err != nil {
				return err
			}
			kept[widget.ID] = struct{}{}
		}

		for i := range existing {
			if _, ok := kept[existing[i].ID]; ok {
				continue
			}
			if err := tx.Delete(&model.Widget{}, existing[i].ID).Error; err != nil {
				return err
			}
		}

		return tx.Where("board_id = ?", boardID).Order("sort_order, id").Find(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
