package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/hdang/siteadmin/model"
)

// SessionService owns the session lifecycle: issue, validate, revoke.
// A session is valid iff its record is active and unexpired AND the token
// signature verifies; revocation must take effect before token expiry.
type SessionService struct {
	repo        SessionRepository
	signer      *TokenSigner
	maxSessions int
}

// Issue signs a new session token and persists the matching record. When the
// user already holds maxSessions active sessions, the oldest by last activity
// is revoked to make room. Concurrent logins can race on this eviction and
// briefly exceed the cap.
func (s *SessionService) Issue(ctx context.Context, userID uint, ip string, userAgent string) (string, *model.Session, error) {
	now := time.Now()
	active, err := s.repo.ListActive(ctx, userID, now)
	if err != nil {
		return "", nil, err
	}
	for len(active) >= s.maxSessions {
		oldest := active[0]
		if err := s.repo.Updates(ctx, oldest.ID, map[string]interface{}{"is_active": false}); err != nil {
			return "", nil, err
		}
		slog.Info("Evicted oldest session over concurrent cap", "userId", userID, "sessionId", oldest.ID)
		active = active[1:]
	}

	token, _, expiresAt, err := s.signer.Sign(userID)
	if err != nil {
		return "", nil, err
	}
	session := &model.Session{
		UserID:       userID,
		SessionToken: token,
		IPAddress:    ip,
		UserAgent:    userAgent,
		LastActivity: now,
		ExpiresAt:    expiresAt,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Validate runs both validation phases and touches last activity on success.
// Every failure collapses to ErrUnauthenticated for the caller.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.Session, error) {
	if _, err := s.signer.Verify(token); err != nil {
		slog.Debug("Session token failed signature validation")
		return nil, ErrUnauthenticated
	}

	session, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		slog.Debug("Session record not found for valid token")
		return nil, ErrUnauthenticated
	}
	if !session.IsActive {
		slog.Debug("Rejected revoked session", "sessionId", session.ID)
		return nil, ErrUnauthenticated
	}
	now := time.Now()
	if !now.Before(session.ExpiresAt) {
		slog.Debug("Rejected expired session", "sessionId", session.ID)
		return nil, ErrUnauthenticated
	}

	session.LastActivity = now
	if err := s.repo.Updates(ctx, session.ID, map[string]interface{}{"last_activity": now}); err != nil {
		slog.Error("Failed to touch session activity", "sessionId", session.ID, "error", err)
	}
	return session, nil
}

// Revoke deactivates the session for token. An already-revoked session is
// reported as not found so repeat revocations are observable to the caller.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	session, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return ErrSessionNotFound
	}
	return s.repo.Updates(ctx, session.ID, map[string]interface{}{"is_active": false})
}

// RevokeByID revokes one of the user's own sessions. Sessions owned by other
// users are reported as not found rather than forbidden.
func (s *SessionService) RevokeByID(ctx context.Context, userID uint, sessionID uint) error {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID || !session.IsActive {
		return ErrSessionNotFound
	}
	return s.repo.Updates(ctx, session.ID, map[string]interface{}{"is_active": false})
}

func (s *SessionService) RevokeAll(ctx context.Context, userID uint) (int64, error) {
	return s.repo.Deactivate(ctx, userID, 0)
}

// RevokeOthers revokes every session of the user except keepID. Used after a
// password change so only the changing session survives.
func (s *SessionService) RevokeOthers(ctx context.Context, userID uint, keepID uint) (int64, error) {
	return s.repo.Deactivate(ctx, userID, keepID)
}

func (s *SessionService) List(ctx context.Context, userID uint) ([]*model.Session, error) {
	return s.repo.ListActive(ctx, userID, time.Now())
}

func NewSessionService(repo SessionRepository, signer *TokenSigner, maxSessions int) *SessionService {
	return &SessionService{
		repo:        repo,
		signer:      signer,
		maxSessions: maxSessions,
	}
}
