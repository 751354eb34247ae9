package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is one authenticated login. Revocation flips IsActive; rows are
// never physically removed so audit entries can always resolve a session.
type Session struct {
	ID           uint   `gorm:"primarykey"`
	UserID       uint   `gorm:"index;not null"`
	SessionToken string `gorm:"uniqueIndex;size:512;not null"`
	IPAddress    string `gorm:"size:45;not null"`
	UserAgent    string `gorm:"size:512;not null"`
	LastActivity time.Time
	ExpiresAt    time.Time `gorm:"index;not null"`
	IsActive     bool      `gorm:"default:true;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == 0 {
		s.ID = GenerateID()
	}
	return nil
}
