package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a time-bounded bearer grant for one user. Once Valid is false it
// is never set back to true.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Token     string    `json:"-" gorm:"size:128;uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Valid     bool      `json:"valid" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the historical table name.
func (Session) TableName() string {
	return "login_sessions"
}

// BeforeCreate sets UUID before creating the record.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Usable reports whether the session still grants access at now.
func (s *Session) Usable(now time.Time) bool {
	return s.Valid && s.ExpiresAt.After(now)
}
