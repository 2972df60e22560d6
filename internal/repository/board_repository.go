package repository

import (
	"context"
	"errors"
	"time"

	"linkboard/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	err := r.db.WithContext(ctx).Create(board).Error
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *BoardRepository) GetAll(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("owner_user_id = ?", ownerID).
		Order("updated_at DESC, board_name ASC").
		Find(&boards).Error
	return boards, err
}

// GetByIDOrURL looks a board up by id first, then by its unique slug. Cards are
// loaded in position order.
func (r *BoardRepository) GetByIDOrURL(ctx context.Context, key string) (*model.Board, error) {
	board, err := r.getBy(ctx, "id = ?", key)
	if board != nil || err != nil {
		return board, err
	}
	return r.getBy(ctx, "board_url = ?", key)
}

func (r *BoardRepository) getBy(ctx context.Context, query string, arg string) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where(query, arg).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByURLExcluding reports whether another board already uses the slug.
func (r *BoardRepository) ExistsByURLExcluding(ctx context.Context, boardURL, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("board_url = ? AND id <> ?", boardURL, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *BoardRepository) CardExists(ctx context.Context, boardID, cardID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("board_id = ? AND id = ?", boardID, cardID).
		Count(&count).Error
	return count > 0, err
}

// Save persists the board's scalar fields with an optimistic version check. The
// stored version must match the one the board was read with; a mismatch, or a
// uniqueness violation introduced concurrently, yields ErrConflict. On success
// the in-memory board carries the bumped version and refreshed updated_at.
func (r *BoardRepository) Save(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveVersioned(tx, board)
	})
}

// SaveWithCards atomically persists the board row (version-checked) and
// replaces its entire card list with the boards's current Cards slice, keeping
// submitted order as position.
func (r *BoardRepository) SaveWithCards(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, board); err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		for i := range board.Cards {
			board.Cards[i].BoardID = board.ID
			board.Cards[i].Position = i
		}
		if len(board.Cards) == 0 {
			return nil
		}
		if err := tx.Create(&board.Cards).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}
		return nil
	})
}

func saveVersioned(tx *gorm.DB, board *model.Board) error {
	now := time.Now().UTC()
	result := tx.Model(&model.Board{}).
		Where("id = ? AND version = ?", board.ID, board.Version).
		Updates(map[string]any{
			"name":       board.Name,
			"headline":   board.Headline,
			"board_name": board.BoardName,
			"board_url":  board.BoardURL,
			"updated_at": now,
			"version":    board.Version + 1,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	board.Version++
	board.UpdatedAt = now
	return nil
}

// TouchUpdatedAt refreshes the board's updated_at without a version bump; used
// by widget writes, which do not contend on the board row itself.
func (r *BoardRepository) TouchUpdatedAt(ctx context.Context, boardID string) error {
	return r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ?", boardID).
		Update("updated_at", time.Now().UTC()).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
