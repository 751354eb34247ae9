package model

import (
	"time"

	"gorm.io/gorm"
)

// SiteSetting is one key/value pair of the generic site configuration store.
type SiteSetting struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;size:128;not null"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *SiteSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == 0 {
		s.ID = GenerateID()
	}
	return nil
}

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:256;not null"`
	Subject   string `gorm:"size:256"`
	Body      string `gorm:"type:text;not null"`
	IPAddress string `gorm:"size:45;not null"`
	CreatedAt time.Time
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == 0 {
		m.ID = GenerateID()
	}
	return nil
}
