package site

import (
	"context"
	"errors"

	"github.com/hdang/siteadmin/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.SiteSetting, error)
	List(ctx context.Context) ([]*model.SiteSetting, error)
	Upsert(ctx context.Context, setting *model.SiteSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

func (r *settingRepository) Get(ctx context.Context, key string) (*model.SiteSetting, error) {
	var setting model.SiteSetting
	err := r.db.WithContext(ctx).First(&setting, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) List(ctx context.Context) ([]*model.SiteSetting, error) {
	var settings []*model.SiteSetting
	err := r.db.WithContext(ctx).Order("`key`").Find(&settings).Error
	return settings, err
}

func (r *settingRepository) Upsert(ctx context.Context, setting *model.SiteSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(setting).Error
}

// SettingService is the thin key/value store behind the admin settings page.
type SettingService struct {
	repo SettingRepository
}

func (s *SettingService) Get(ctx context.Context, key string) (*model.SiteSetting, error) {
	return s.repo.Get(ctx, key)
}

func (s *SettingService) List(ctx context.Context) ([]*model.SiteSetting, error) {
	return s.repo.List(ctx)
}

func (s *SettingService) Put(ctx context.Context, key, value string) (*model.SiteSetting, error) {
	setting := &model.SiteSetting{Key: key, Value: value}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db}
}

func NewSettingService(repo SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}
