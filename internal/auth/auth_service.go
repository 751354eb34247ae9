package auth

import (
	"context"
	"errors"
	"time"

	"github.com/hdang/siteadmin/internal/audit"
	"github.com/hdang/siteadmin/internal/sessions"
	"github.com/hdang/siteadmin/internal/users"
	"github.com/hdang/siteadmin/model"
	"github.com/hdang/siteadmin/params"
)

type LoginInput struct {
	Identifier string // username or email
	Password   string
	IP         string
	UserAgent  string
}

type LoginResult struct {
	User      *model.User
	Session   *model.Session
	Token     string
	ExpiresAt time.Time
}

// AuthService orchestrates authentication: credential verification, the
// account lockout policy, session issuance and the audit/security trail.
type AuthService struct {
	userRepo users.UserRepository
	users    *users.UserService
	sessions *sessions.SessionService
	auditor  *audit.Recorder
	security *audit.SecurityRecorder
}

// Login authenticates a principal. Failed verification increments the
// failed-attempt counter and locks the account at the threshold; a locked
// account is rejected before the password is even checked, so correct
// credentials cannot bypass the lock.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	req := audit.RequestInfo{IP: input.IP, UserAgent: input.UserAgent}

	user, err := s.users.GetUserByUsernameOrEmail(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.security.RecordLoginFailed(ctx, req, "unknown identifier")
			s.auditor.RecordLogin(ctx, req, false, "unknown identifier")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	req.UserID = user.ID

	if !user.IsActive {
		s.security.RecordLoginFailed(ctx, req, "disabled account")
		s.auditor.RecordLogin(ctx, req, false, "disabled account")
		return nil, ErrAccountDisabled
	}

	if user.IsLocked {
		s.security.RecordLockedAccountAttempt(ctx, req)
		s.auditor.RecordLogin(ctx, req, false, "locked account")
		return nil, ErrAccountLocked
	}

	ok, err := CheckPassword(input.Password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.recordFailedAttempt(ctx, req, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.Updates(ctx, user.ID, map[string]interface{}{
		"failed_login_attempts": 0,
		"is_locked":             false,
		"last_login":            now,
	}); err != nil {
		return nil, err
	}
	user.FailedLoginAttempts = 0
	user.IsLocked = false
	user.LastLogin = &now

	token, session, err := s.sessions.Issue(ctx, user.ID, input.IP, input.UserAgent)
	if err != nil {
		return nil, err
	}

	req.SessionID = session.ID
	s.auditor.RecordLogin(ctx, req, true, "")

	return &LoginResult{
		User:      user,
		Session:   session,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, req audit.RequestInfo, user *model.User) error {
	attempts := user.FailedLoginAttempts + 1
	locked := attempts >= params.MaxFailedLogins
	if err := s.userRepo.Updates(ctx, user.ID, map[string]interface{}{
		"failed_login_attempts": attempts,
		"is_locked":             locked,
	}); err != nil {
		return err
	}

	s.security.RecordLoginFailed(ctx, req, "wrong password")
	s.auditor.RecordLogin(ctx, req, false, "wrong password")
	if locked {
		s.security.RecordAccountLocked(ctx, req)
	}
	return nil
}

// Logout revokes the presented session token. An already-invalid token is
// not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string, req audit.RequestInfo) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	s.auditor.Record(ctx, req, audit.Entry{Action: audit.ActionLogout})
	return nil
}

// ChangePassword verifies the current password, applies the policy to the
// new one, rehashes, and revokes every other session of the user.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, currentPassword, newPassword string, keepSessionID uint, req audit.RequestInfo) error {
	ok, err := CheckPassword(currentPassword, user.Password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	if _, err := s.sessions.RevokeOthers(ctx, user.ID, keepSessionID); err != nil {
		return err
	}
	s.auditor.Record(ctx, req, audit.Entry{
		Action:   audit.ActionPasswordChanged,
		Severity: audit.SeverityWarning,
	})
	return nil
}

func NewAuthService(userRepo users.UserRepository, userService *users.UserService, sessionService *sessions.SessionService, auditor *audit.Recorder, security *audit.SecurityRecorder) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		users:    userService,
		sessions: sessionService,
		auditor:  auditor,
		security: security,
	}
}
