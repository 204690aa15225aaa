package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cryptovibe/internal/model"
)

// WhiteboardRepository persists the committed strokes and redo stack of each
// user's board.
type WhiteboardRepository interface {
	// ListActive returns committed strokes oldest first.
	ListActive(ctx context.Context, userID uuid.UUID) ([]model.WhiteboardStroke, error)
	// ListUndone returns the redo stack bottom first.
	ListUndone(ctx context.Context, userID uuid.UUID) ([]model.WhiteboardStroke, error)
	// Commit stores a new stroke and discards the user's redo stack in one transaction.
	Commit(ctx context.Context, stroke *model.WhiteboardStroke) error
	MarkUndone(ctx context.Context, id uuid.UUID, undoSeq int64, at time.Time) error
	Restore(ctx context.Context, id uuid.UUID, seq int64) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

type whiteboardRepository struct {
	db *gorm.DB
}

// NewWhiteboardRepository creates a new whiteboard repository.
func NewWhiteboardRepository(db *gorm.DB) WhiteboardRepository {
	return &whiteboardRepository{db: db}
}

func (r *whiteboardRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]model.WhiteboardStroke, error) {
	var strokes []model.WhiteboardStroke
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("seq ASC").
		Find(&strokes).Error; err != nil {
		return nil, err
	}
	return strokes, nil
}

func (r *whiteboardRepository) ListUndone(ctx context.Context, userID uuid.UUID) ([]model.WhiteboardStroke, error) {
	var strokes []model.WhiteboardStroke
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, true).
		Order("undo_seq ASC").
		Find(&strokes).Error; err != nil {
		return nil, err
	}
	return strokes, nil
}

func (r *whiteboardRepository) Commit(ctx context.Context, stroke *model.WhiteboardStroke) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND is_deleted = ?", stroke.UserID, true).
			Delete(&model.WhiteboardStroke{}).Error; err != nil {
			return err
		}
		return tx.Create(stroke).Error
	})
}

func (r *whiteboardRepository) MarkUndone(ctx context.Context, id uuid.UUID, undoSeq int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.WhiteboardStroke{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"undo_seq":   undoSeq,
			"undone_at":  at,
		}).Error
}

func (r *whiteboardRepository) Restore(ctx context.Context, id uuid.UUID, seq int64) error {
	return r.db.WithContext(ctx).Model(&model.WhiteboardStroke{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"undo_seq":   0,
			"undone_at":  nil,
			"seq":        seq,
		}).Error
}

func (r *whiteboardRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.WhiteboardStroke{}).Error
}
