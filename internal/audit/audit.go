package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hdang/siteadmin/model"
	"github.com/hdang/siteadmin/params"
)

const (
	ActionLoginSuccess     = "login_success"
	ActionLoginFailed      = "login_failed"
	ActionLogout           = "logout"
	ActionPasswordChanged  = "password_changed"
	ActionUserCreated      = "user_created"
	ActionUserUnlocked     = "user_unlocked"
	ActionSessionRevoked   = "session_revoked"
	ActionRoleCreated      = "role_created"
	ActionRoleUpdated      = "role_updated"
	ActionRoleDeleted      = "role_deleted"
	ActionSettingUpdated   = "setting_updated"
	ActionPermissionDenied = "permission_denied"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RequestInfo carries the client attribution attached to every entry.
type RequestInfo struct {
	UserID    uint
	SessionID uint
	IP        string
	UserAgent string
}

// Recorder is the append-only audit log sink. Record failures are reported
// to the operational log and swallowed so they never break the caller's
// response path.
type Recorder struct {
	repo AuditLogRepository
}

type Entry struct {
	Action       string
	ResourceType string
	ResourceID   string
	OldValues    any
	NewValues    any
	Metadata     map[string]any
	Severity     string
	Status       string
}

func marshalValues(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func (r *Recorder) Record(ctx context.Context, req RequestInfo, entry Entry) {
	if entry.Severity == "" {
		entry.Severity = SeverityInfo
	}
	if entry.Status == "" {
		entry.Status = StatusSuccess
	}
	row := &model.AuditLog{
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		OldValues:    marshalValues(entry.OldValues),
		NewValues:    marshalValues(entry.NewValues),
		Metadata:     marshalValues(entry.Metadata),
		IPAddress:    req.IP,
		UserAgent:    req.UserAgent,
		Severity:     entry.Severity,
		Status:       entry.Status,
	}
	if err := r.repo.Record(ctx, row); err != nil {
		slog.Error("Failed to record audit entry", "action", entry.Action, "error", err)
	}
}

func (r *Recorder) RecordLogin(ctx context.Context, req RequestInfo, success bool, reason string) {
	entry := Entry{
		Action:   ActionLoginSuccess,
		Status:   StatusSuccess,
		Metadata: map[string]any{"reason": reason},
	}
	if !success {
		entry.Action = ActionLoginFailed
		entry.Status = StatusFailure
		entry.Severity = SeverityWarning
	}
	r.Record(ctx, req, entry)
}

func (r *Recorder) RecordPermissionDenied(ctx context.Context, req RequestInfo, permission string) {
	r.Record(ctx, req, Entry{
		Action:   ActionPermissionDenied,
		Status:   StatusFailure,
		Severity: SeverityWarning,
		Metadata: map[string]any{"permission": permission},
	})
}

// RecordResourceChange captures before/after snapshots of a mutated resource.
func (r *Recorder) RecordResourceChange(ctx context.Context, req RequestInfo, action, resourceType, resourceID string, oldValues, newValues any) {
	r.Record(ctx, req, Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
	})
}

func (r *Recorder) Query(ctx context.Context, filter QueryFilter) ([]*model.AuditLog, error) {
	return r.repo.Query(ctx, filter)
}

// Cleanup removes entries older than the given retention. It is the only
// mutation path for the audit table.
func (r *Recorder) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = params.AuditRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return r.repo.DeleteOlderThan(ctx, cutoff)
}

func NewRecorder(repo AuditLogRepository) *Recorder {
	return &Recorder{repo: repo}
}
