package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WhiteboardStroke is one committed stroke of a user's board. Undone strokes
// keep their row with IsDeleted set until a new commit discards them.
type WhiteboardStroke struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;index:idx_wb_user_created"`
	StrokeData string     `json:"stroke_data" gorm:"type:text;not null"` // JSON encoded whiteboard.Stroke
	IsDeleted  bool       `json:"is_deleted" gorm:"not null;default:false;index"`
	UndoneAt   *time.Time `json:"undone_at,omitempty"`
	Seq        int64      `json:"seq" gorm:"not null;index:idx_wb_user_created"`
	UndoSeq    int64      `json:"undo_seq" gorm:"not null;default:0"` // order on the redo stack
	CreatedAt  time.Time  `json:"created_at"`
}

func (WhiteboardStroke) TableName() string {
	return "whiteboard_strokes"
}

// BeforeCreate sets UUID before creating the record.
func (w *WhiteboardStroke) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
