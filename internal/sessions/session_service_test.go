package sessions

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/hdang/siteadmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]*model.Session
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*model.Session), nextID: 1}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = r.nextID
	r.nextID++
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.SessionToken == token {
			clone := *s
			return &clone, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, sessionID uint) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, ErrSessionNotFound
}

func (r *fakeSessionRepo) ListActive(ctx context.Context, userID uint, now time.Time) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*model.Session
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive && now.Before(s.ExpiresAt) {
			clone := *s
			active = append(active, &clone)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].LastActivity.Before(active[j].LastActivity)
	})
	return active, nil
}

func (r *fakeSessionRepo) Updates(ctx context.Context, sessionID uint, columns map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if v, ok := columns["is_active"]; ok {
		s.IsActive = v.(bool)
	}
	if v, ok := columns["last_activity"]; ok {
		s.LastActivity = v.(time.Time)
	}
	return nil
}

func (r *fakeSessionRepo) Deactivate(ctx context.Context, userID uint, keepID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsActive && s.ID != keepID {
			s.IsActive = false
			affected++
		}
	}
	return affected, nil
}

// setExpiry backdates a stored session so expiry paths can be exercised.
func (r *fakeSessionRepo) setExpiry(sessionID uint, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID].ExpiresAt = expiresAt
}

func newTestService(repo *fakeSessionRepo) *SessionService {
	signer := NewTokenSigner("test-secret", 24*time.Hour)
	return NewSessionService(repo, signer, 3)
}

func TestIssueAndValidate(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	token, session, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, uint(42), session.UserID)
	assert.True(t, session.IsActive)

	validated, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, validated.ID)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	token, _, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token+"x")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	otherSigner := NewTokenSigner("other-secret", 24*time.Hour)
	foreign, _, _, err := otherSigner.Sign(42)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), foreign)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateRejectsRevokedSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	token, _, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(context.Background(), token))

	// The token itself is still cryptographically valid and unexpired,
	// but the record check must fail it.
	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateRejectsExpiredRecord(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	token, session, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	repo.setExpiry(session.ID, time.Now().Add(-time.Minute))
	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRevokeTwiceReportsNotFound(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	token, _, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), token))
	assert.ErrorIs(t, svc.Revoke(context.Background(), token), ErrSessionNotFound)
}

func TestRevokeAll(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	var tokens []string
	for i := 0; i < 3; i++ {
		token, _, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
		require.NoError(t, err)
		tokens = append(tokens, token)
		time.Sleep(2 * time.Millisecond)
	}

	affected, err := svc.RevokeAll(context.Background(), 42)
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)

	for _, token := range tokens {
		_, err := svc.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	}
}

func TestConcurrentSessionCapEvictsOldest(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	var tokens []string
	for i := 0; i < 3; i++ {
		token, _, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
		require.NoError(t, err)
		tokens = append(tokens, token)
		time.Sleep(2 * time.Millisecond)
	}

	// The second session is now the oldest by activity.
	_, err := svc.Validate(context.Background(), tokens[0])
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	_, _, err = svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), tokens[1])
	assert.ErrorIs(t, err, ErrUnauthenticated, "oldest-by-activity session should have been evicted")

	_, err = svc.Validate(context.Background(), tokens[0])
	assert.NoError(t, err, "recently active session should survive eviction")
	_, err = svc.Validate(context.Background(), tokens[2])
	assert.NoError(t, err)

	active, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestRevokeByIDRequiresOwnership(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	_, session, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	err = svc.RevokeByID(context.Background(), 99, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.RevokeByID(context.Background(), 42, session.ID))
	active, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, active)

	err = svc.RevokeByID(context.Background(), 42, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "revoking a revoked session is not repeatable")
}

func TestListExcludesExpiredAndRevoked(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := newTestService(repo)

	_, expired, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)
	repo.setExpiry(expired.ID, time.Now().Add(-time.Minute))

	revokedToken, _, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(context.Background(), revokedToken))

	_, kept, err := svc.Issue(context.Background(), 42, "1.2.3.4", "test-agent")
	require.NoError(t, err)

	active, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)
}
