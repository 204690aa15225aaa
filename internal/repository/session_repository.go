package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cryptovibe/internal/model"
)

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	// FindByToken returns the session with its owner loaded, whatever its
	// state, or gorm.ErrRecordNotFound.
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// Invalidate reports how many sessions it switched off; zero for unknown
	// or already revoked tokens.
	Invalidate(ctx context.Context, token string) (int64, error)
	InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("login_sessions.token = ?", token).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Invalidate(ctx context.Context, token string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("token = ? AND valid = ?", token, true).
		Update("valid", false)
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) InvalidateAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("user_id = ? AND valid = ?", userID, true).
		Update("valid", false).Error
}
