package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/hdang/siteadmin/model"
	"github.com/hdang/siteadmin/params"
)

const (
	EventLoginFailed       = "login_failed"
	EventLockedAccount     = "locked_account_attempt"
	EventAccountLocked     = "account_locked"
	EventPermissionDenied  = "permission_denied"
	EventRateLimitExceeded = "rate_limit_exceeded"
	EventBlockedIP         = "blocked_ip"
)

// Risk scores per event class. 100 means the source is actively blocked.
const (
	RiskLoginFailed       = 40
	RiskAccountLocked     = 80
	RiskPermissionDenied  = 60
	RiskRateLimitExceeded = 50
	RiskBlockedIP         = 100
)

// SecurityRecorder appends security events. Same contract as Recorder:
// failures go to the operational log only.
type SecurityRecorder struct {
	repo SecurityEventRepository
}

func (r *SecurityRecorder) Record(ctx context.Context, event *model.SecurityEvent) {
	if err := r.repo.Record(ctx, event); err != nil {
		slog.Error("Failed to record security event", "eventType", event.EventType, "error", err)
	}
}

func (r *SecurityRecorder) RecordLoginFailed(ctx context.Context, req RequestInfo, description string) {
	r.Record(ctx, &model.SecurityEvent{
		UserID:      req.UserID,
		EventType:   EventLoginFailed,
		Description: description,
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
		RiskScore:   RiskLoginFailed,
	})
}

func (r *SecurityRecorder) RecordLockedAccountAttempt(ctx context.Context, req RequestInfo) {
	r.Record(ctx, &model.SecurityEvent{
		UserID:      req.UserID,
		EventType:   EventLockedAccount,
		Description: "authentication attempt on a locked account",
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
		RiskScore:   RiskAccountLocked,
	})
}

func (r *SecurityRecorder) RecordAccountLocked(ctx context.Context, req RequestInfo) {
	r.Record(ctx, &model.SecurityEvent{
		UserID:      req.UserID,
		EventType:   EventAccountLocked,
		Description: "account locked after repeated failed logins",
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
		RiskScore:   RiskAccountLocked,
	})
}

func (r *SecurityRecorder) RecordPermissionDenied(ctx context.Context, req RequestInfo, permission string) {
	r.Record(ctx, &model.SecurityEvent{
		UserID:      req.UserID,
		EventType:   EventPermissionDenied,
		Description: "denied permission " + permission,
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
		RiskScore:   RiskPermissionDenied,
	})
}

func (r *SecurityRecorder) RecordRateLimitExceeded(ctx context.Context, req RequestInfo, scope string) {
	r.Record(ctx, &model.SecurityEvent{
		UserID:      req.UserID,
		EventType:   EventRateLimitExceeded,
		Description: "rate limit exceeded for " + scope,
		IPAddress:   req.IP,
		UserAgent:   req.UserAgent,
		RiskScore:   RiskRateLimitExceeded,
		IsBlocked:   true,
	})
}

func (r *SecurityRecorder) Query(ctx context.Context, filter QueryFilter) ([]*model.SecurityEvent, error) {
	return r.repo.Query(ctx, filter)
}

func (r *SecurityRecorder) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = params.AuditRetentionDays
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return r.repo.DeleteOlderThan(ctx, cutoff)
}

func NewSecurityRecorder(repo SecurityEventRepository) *SecurityRecorder {
	return &SecurityRecorder{repo: repo}
}
