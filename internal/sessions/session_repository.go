package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/hdang/siteadmin/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	GetByID(ctx context.Context, sessionID uint) (*model.Session, error)
	// ListActive returns active, unexpired sessions ordered by last activity,
	// oldest first.
	ListActive(ctx context.Context, userID uint, now time.Time) ([]*model.Session, error)
	Updates(ctx context.Context, sessionID uint, columns map[string]interface{}) error
	// Deactivate flips is_active on all of the user's active sessions except
	// keepID (0 keeps none) and reports how many rows changed.
	Deactivate(ctx context.Context, userID uint, keepID uint) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).First(&session, "session_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID uint) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListActive(ctx context.Context, userID uint, now time.Time) ([]*model.Session, error) {
	var sessions []*model.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, now).
		Order("last_activity").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Updates(ctx context.Context, sessionID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).Where("id = ?", sessionID).Updates(columns).Error
}

func (r *sessionRepository) Deactivate(ctx context.Context, userID uint, keepID uint) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true)
	if keepID != 0 {
		tx = tx.Where("id <> ?", keepID)
	}
	ret := tx.Update("is_active", false)
	return ret.RowsAffected, ret.Error
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db}
}
