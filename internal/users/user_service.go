package users

import (
	"context"
	"net/mail"

	"github.com/hdang/siteadmin/model"
	"github.com/hdang/siteadmin/params"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserOptions struct {
	Username string
	Email    string
	Password string
	RoleID   uint
}

type UserService struct {
	userRepo UserRepository
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	if _, err := mail.ParseAddress(identifier); err == nil {
		return s.userRepo.GetByEmail(ctx, identifier)
	}
	return s.userRepo.GetByUsername(ctx, identifier)
}

func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), params.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username: opts.Username,
		Email:    opts.Email,
		Password: string(passwordHash),
		RoleID:   opts.RoleID,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), params.BcryptCost)
	if err != nil {
		return err
	}
	return s.userRepo.Updates(ctx, userID, map[string]interface{}{
		"password": string(passwordHash),
	})
}

// SetActive deactivates or reactivates an account. Users are never deleted.
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) error {
	return s.userRepo.Updates(ctx, userID, map[string]interface{}{
		"is_active": active,
	})
}

// Unlock clears the lockout state by administrative action.
func (s *UserService) Unlock(ctx context.Context, userID uint) error {
	return s.userRepo.Updates(ctx, userID, map[string]interface{}{
		"is_locked":             false,
		"failed_login_attempts": 0,
	})
}

func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}
