package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is a named bundle of permissions shared by many users. System roles
// are seeded at startup and cannot be renamed or deleted.
type Role struct {
	ID          uint         `gorm:"primarykey"`
	Name        string       `gorm:"uniqueIndex;size:64;not null"`
	Description string       `gorm:"size:256"`
	IsSystem    bool         `gorm:"default:false;not null"`
	IsActive    bool         `gorm:"default:true;not null"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == 0 {
		r.ID = GenerateID()
	}
	return nil
}

// Permission is an atomic capability identified by a "resource:action" string.
type Permission struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"uniqueIndex;size:64;not null"`
	Description string `gorm:"size:256"`
	CreatedAt   time.Time
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == 0 {
		p.ID = GenerateID()
	}
	return nil
}
