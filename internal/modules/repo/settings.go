package repo

import (
	"context"
	"errors"

	"github.com/arabshield/portal/internal/modules/model"
	"gorm.io/gorm"
)

type SettingsRepo interface {
	Get(ctx context.Context) (*model.SystemSettings, error)
	Update(ctx context.Context, fields map[string]interface{}) error
	// EnsureExists seeds the singleton row with defaults when missing.
	EnsureExists(ctx context.Context) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*model.SystemSettings, error) {
	var s model.SystemSettings
	err := r.db.WithContext(ctx).Where("id = ?", model.SystemSettingsID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Update(ctx context.Context, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.SystemSettings{}).
		Where("id = ?", model.SystemSettingsID).
		Updates(fields).Error
}

func (r *settingsRepo) EnsureExists(ctx context.Context) error {
	var s model.SystemSettings
	err := r.db.WithContext(ctx).Where("id = ?", model.SystemSettingsID).First(&s).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&model.SystemSettings{
		ID:                        model.SystemSettingsID,
		SiteName:                  "ArabShield",
		AllowNewRegistrations:     true,
		DefaultUserRole:           model.RoleClient,
		MaxProjectsPerUser:        10,
		EmailNotificationsEnabled: true,
	}).Error
}
