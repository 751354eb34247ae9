package model

import "time"

// AuditLog is an append-only record of a security-relevant action.
// Rows are never edited; the retention cleanup job is the only delete path.
type AuditLog struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	UserID       uint   `gorm:"index"`
	SessionID    uint   `gorm:"index"`
	Action       string `gorm:"size:64;not null;index"`
	ResourceType string `gorm:"size:64;index"`
	ResourceID   string `gorm:"size:64"`
	OldValues    string `gorm:"type:text"` // JSON snapshot before the change
	NewValues    string `gorm:"type:text"` // JSON snapshot after the change
	Metadata     string `gorm:"type:text"`
	IPAddress    string `gorm:"size:45;not null"`
	UserAgent    string `gorm:"size:512;not null"`
	Severity     string `gorm:"size:16;not null;index"`
	Status       string `gorm:"size:16;not null"`
	CreatedAt    time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// SecurityEvent records anomalous activity with a 0-100 risk score.
type SecurityEvent struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint   `gorm:"index"`
	EventType   string `gorm:"size:64;not null;index"`
	Description string `gorm:"size:512"`
	IPAddress   string `gorm:"size:45;not null;index"`
	UserAgent   string `gorm:"size:512"`
	RiskScore   int    `gorm:"not null"`
	IsBlocked   bool   `gorm:"default:false;not null"`
	CreatedAt   time.Time
}

func (SecurityEvent) TableName() string {
	return "security_events"
}
