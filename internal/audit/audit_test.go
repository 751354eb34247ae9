package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hdang/siteadmin/model"
	"github.com/hdang/siteadmin/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAuditRepo struct {
	entries    []*model.AuditLog
	recordErr  error
	lastCutoff time.Time
}

func (r *memAuditRepo) Record(ctx context.Context, entry *model.AuditLog) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) Query(ctx context.Context, filter QueryFilter) ([]*model.AuditLog, error) {
	var out []*model.AuditLog
	for _, e := range r.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.UserID != 0 && e.UserID != filter.UserID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memAuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.lastCutoff = cutoff
	var kept []*model.AuditLog
	var removed int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

type memSecurityRepo struct {
	events     []*model.SecurityEvent
	lastCutoff time.Time
}

func (r *memSecurityRepo) Record(ctx context.Context, event *model.SecurityEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *memSecurityRepo) Query(ctx context.Context, filter QueryFilter) ([]*model.SecurityEvent, error) {
	return r.events, nil
}

func (r *memSecurityRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.lastCutoff = cutoff
	return 0, nil
}

var testReq = RequestInfo{UserID: 7, SessionID: 3, IP: "10.0.0.1", UserAgent: "test-agent"}

func TestRecordDefaults(t *testing.T) {
	repo := &memAuditRepo{}
	recorder := NewRecorder(repo)

	recorder.Record(context.Background(), testReq, Entry{Action: ActionLogout})

	require.Len(t, repo.entries, 1)
	row := repo.entries[0]
	assert.Equal(t, ActionLogout, row.Action)
	assert.Equal(t, SeverityInfo, row.Severity)
	assert.Equal(t, StatusSuccess, row.Status)
	assert.Equal(t, uint(7), row.UserID)
	assert.Equal(t, uint(3), row.SessionID)
	assert.Equal(t, "10.0.0.1", row.IPAddress)
	assert.Equal(t, "test-agent", row.UserAgent)
}

func TestRecordSwallowsRepoFailure(t *testing.T) {
	repo := &memAuditRepo{recordErr: errors.New("database is down")}
	recorder := NewRecorder(repo)

	// Must not panic or propagate; the caller's response path is unaffected.
	recorder.Record(context.Background(), testReq, Entry{Action: ActionLogout})
	assert.Empty(t, repo.entries)
}

func TestRecordLogin(t *testing.T) {
	repo := &memAuditRepo{}
	recorder := NewRecorder(repo)

	recorder.RecordLogin(context.Background(), testReq, true, "")
	recorder.RecordLogin(context.Background(), testReq, false, "wrong password")

	require.Len(t, repo.entries, 2)

	success := repo.entries[0]
	assert.Equal(t, ActionLoginSuccess, success.Action)
	assert.Equal(t, StatusSuccess, success.Status)
	assert.Equal(t, SeverityInfo, success.Severity)

	failure := repo.entries[1]
	assert.Equal(t, ActionLoginFailed, failure.Action)
	assert.Equal(t, StatusFailure, failure.Status)
	assert.Equal(t, SeverityWarning, failure.Severity)
	assert.Contains(t, failure.Metadata, "wrong password")
}

func TestRecordResourceChangeMarshalsSnapshots(t *testing.T) {
	repo := &memAuditRepo{}
	recorder := NewRecorder(repo)

	recorder.RecordResourceChange(context.Background(), testReq,
		ActionSettingUpdated, "setting", "site.title",
		map[string]string{"value": "Old"}, map[string]string{"value": "New"})

	require.Len(t, repo.entries, 1)
	row := repo.entries[0]
	assert.Equal(t, "setting", row.ResourceType)
	assert.Equal(t, "site.title", row.ResourceID)
	assert.JSONEq(t, `{"value":"Old"}`, row.OldValues)
	assert.JSONEq(t, `{"value":"New"}`, row.NewValues)
}

func TestRecordResourceChangeNilSnapshots(t *testing.T) {
	repo := &memAuditRepo{}
	recorder := NewRecorder(repo)

	recorder.RecordResourceChange(context.Background(), testReq,
		ActionUserUnlocked, "user", "alice", nil, nil)

	require.Len(t, repo.entries, 1)
	assert.Empty(t, repo.entries[0].OldValues)
	assert.Empty(t, repo.entries[0].NewValues)
}

func TestCleanupUsesDefaultRetention(t *testing.T) {
	repo := &memAuditRepo{}
	recorder := NewRecorder(repo)

	_, err := recorder.Cleanup(context.Background(), 0)
	require.NoError(t, err)
	expected := time.Now().AddDate(0, 0, -params.AuditRetentionDays)
	assert.WithinDuration(t, expected, repo.lastCutoff, time.Minute)
}

func TestCleanupRemovesOldEntries(t *testing.T) {
	repo := &memAuditRepo{entries: []*model.AuditLog{
		{Action: ActionLogout, CreatedAt: time.Now().AddDate(0, 0, -10)},
		{Action: ActionLogout, CreatedAt: time.Now()},
	}}
	recorder := NewRecorder(repo)

	removed, err := recorder.Cleanup(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Len(t, repo.entries, 1)
}

func TestSecurityEventRiskScores(t *testing.T) {
	repo := &memSecurityRepo{}
	recorder := NewSecurityRecorder(repo)
	ctx := context.Background()

	recorder.RecordLoginFailed(ctx, testReq, "wrong password")
	recorder.RecordLockedAccountAttempt(ctx, testReq)
	recorder.RecordAccountLocked(ctx, testReq)
	recorder.RecordPermissionDenied(ctx, testReq, "users:delete")
	recorder.RecordRateLimitExceeded(ctx, testReq, "login")

	require.Len(t, repo.events, 5)
	assert.Equal(t, RiskLoginFailed, repo.events[0].RiskScore)
	assert.Equal(t, RiskAccountLocked, repo.events[1].RiskScore)
	assert.Equal(t, RiskAccountLocked, repo.events[2].RiskScore)
	assert.Equal(t, RiskPermissionDenied, repo.events[3].RiskScore)
	assert.Equal(t, RiskRateLimitExceeded, repo.events[4].RiskScore)

	assert.True(t, repo.events[4].IsBlocked, "rate-limit events mark the source as blocked")
	for _, e := range repo.events[:4] {
		assert.False(t, e.IsBlocked)
	}
}

func TestSecurityCleanupRetention(t *testing.T) {
	repo := &memSecurityRepo{}
	recorder := NewSecurityRecorder(repo)

	_, err := recorder.Cleanup(context.Background(), 30)
	require.NoError(t, err)
	expected := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, repo.lastCutoff, time.Minute)
}
