package users

import (
	"context"
	"testing"

	"github.com/hdang/siteadmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	users map[uint]*model.User
}

func (r *memUserRepo) GetByID(ctx context.Context, userID uint) (*model.User, error) {
	if u, ok := r.users[userID]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Updates(ctx context.Context, userID uint, columns map[string]interface{}) error {
	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if v, ok := columns["password"]; ok {
		u.Password = v.(string)
	}
	if v, ok := columns["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	if v, ok := columns["is_locked"]; ok {
		u.IsLocked = v.(bool)
	}
	if v, ok := columns["failed_login_attempts"]; ok {
		u.FailedLoginAttempts = v.(int)
	}
	return nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memUserRepo) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	var count int64
	for _, u := range r.users {
		if u.RoleID == roleID {
			count++
		}
	}
	return count, nil
}

func newUserFixture(t *testing.T) (*UserService, *memUserRepo) {
	t.Helper()
	repo := &memUserRepo{users: make(map[uint]*model.User)}
	require.NoError(t, repo.Create(context.Background(), &model.User{
		Username: "alice",
		Email:    "alice@example.com",
		IsActive: true,
	}))
	return NewUserService(repo), repo
}

func TestGetUserByUsernameOrEmail(t *testing.T) {
	svc, _ := newUserFixture(t)

	byName, err := svc.GetUserByUsernameOrEmail(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", byName.Username)

	byEmail, err := svc.GetUserByUsernameOrEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byEmail.ID)

	_, err = svc.GetUserByUsernameOrEmail(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.GetUserByUsernameOrEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePasswordStoresHash(t *testing.T) {
	svc, repo := newUserFixture(t)

	require.NoError(t, svc.UpdatePassword(context.Background(), 1, "N3wSecret!x"))

	stored := repo.users[1].Password
	require.NotEqual(t, "N3wSecret!x", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("N3wSecret!x")))
}

func TestUnlockClearsLockoutState(t *testing.T) {
	svc, repo := newUserFixture(t)
	repo.users[1].IsLocked = true
	repo.users[1].FailedLoginAttempts = 5

	require.NoError(t, svc.Unlock(context.Background(), 1))
	assert.False(t, repo.users[1].IsLocked)
	assert.Zero(t, repo.users[1].FailedLoginAttempts)
}

func TestSetActive(t *testing.T) {
	svc, repo := newUserFixture(t)

	require.NoError(t, svc.SetActive(context.Background(), 1, false))
	assert.False(t, repo.users[1].IsActive)

	require.NoError(t, svc.SetActive(context.Background(), 1, true))
	assert.True(t, repo.users[1].IsActive)
}
