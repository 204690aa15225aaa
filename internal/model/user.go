package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account of the trading dashboard.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string     `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	FullName     *string    `json:"full_name,omitempty" gorm:"size:255"`
	BirthDate    *time.Time `json:"birth_date,omitempty" gorm:"type:date"`
	PasswordHash string     `json:"-" gorm:"type:text;not null"` // Never expose in JSON
	IsAdmin      bool       `json:"is_admin" gorm:"not null;default:false"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
