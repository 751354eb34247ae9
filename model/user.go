package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an admin-panel principal. Accounts are never hard-deleted,
// only deactivated, so audit rows keep a valid user reference.
type User struct {
	ID                  uint   `gorm:"primarykey"`
	Username            string `gorm:"uniqueIndex;size:32;not null"`
	Email               string `gorm:"uniqueIndex;size:256;not null"`
	Password            string `gorm:"size:64;not null"`
	RoleID              uint   `gorm:"index;not null"`
	Role                *Role  `gorm:"foreignKey:RoleID;references:ID"`
	IsActive            bool   `gorm:"default:true;not null"`
	IsLocked            bool   `gorm:"default:false;not null"`
	FailedLoginAttempts int    `gorm:"default:0;not null"`
	LastLogin           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}
