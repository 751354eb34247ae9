package audit

import (
	"context"
	"time"

	"github.com/hdang/siteadmin/model"
	"gorm.io/gorm"
)

// QueryFilter narrows an audit-log query. Zero values mean "no filter".
type QueryFilter struct {
	UserID       uint
	Action       string
	ResourceType string
	Severity     string
	StartDate    time.Time
	EndDate      time.Time
	Limit        int
}

type AuditLogRepository interface {
	Record(ctx context.Context, entry *model.AuditLog) error
	Query(ctx context.Context, filter QueryFilter) ([]*model.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SecurityEventRepository interface {
	Record(ctx context.Context, event *model.SecurityEvent) error
	Query(ctx context.Context, filter QueryFilter) ([]*model.SecurityEvent, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func (r *auditLogRepository) Record(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func applyFilter(tx *gorm.DB, filter QueryFilter) *gorm.DB {
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		tx = tx.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.Severity != "" {
		tx = tx.Where("severity = ?", filter.Severity)
	}
	if !filter.StartDate.IsZero() {
		tx = tx.Where("created_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		tx = tx.Where("created_at <= ?", filter.EndDate)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	return tx.Order("created_at")
}

func (r *auditLogRepository) Query(ctx context.Context, filter QueryFilter) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog
	err := applyFilter(r.db.WithContext(ctx), filter).Find(&entries).Error
	return entries, err
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AuditLog{})
	return ret.RowsAffected, ret.Error
}

type securityEventRepository struct {
	db *gorm.DB
}

func (r *securityEventRepository) Record(ctx context.Context, event *model.SecurityEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *securityEventRepository) Query(ctx context.Context, filter QueryFilter) ([]*model.SecurityEvent, error) {
	tx := r.db.WithContext(ctx)
	if filter.UserID != 0 {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		tx = tx.Where("event_type = ?", filter.Action)
	}
	if !filter.StartDate.IsZero() {
		tx = tx.Where("created_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		tx = tx.Where("created_at <= ?", filter.EndDate)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	var events []*model.SecurityEvent
	err := tx.Order("created_at").Find(&events).Error
	return events, err
}

func (r *securityEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.SecurityEvent{})
	return ret.RowsAffected, ret.Error
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db}
}

func NewSecurityEventRepository(db *gorm.DB) SecurityEventRepository {
	return &securityEventRepository{db}
}
