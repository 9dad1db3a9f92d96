package bootstrap

import (
	"context"
	"errors"

	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/utils/secrets"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDefaults makes a fresh database usable: the settings singleton always
// exists, and when owner credentials are configured an owner account is
// created once. Existing rows are never overwritten.
func SeedDefaults(ctx context.Context, d *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	settings := repo.NewSettingsRepo(d)
	if err := settings.EnsureExists(ctx); err != nil {
		return err
	}

	if cfg.Auth.OwnerEmail == "" || cfg.Auth.OwnerPassword == "" {
		return nil
	}

	users := repo.NewUserRepo(d)
	if _, err := users.GetByEmail(ctx, cfg.Auth.OwnerEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	phc, err := secrets.HashPassword(cfg.Auth.OwnerPassword, cfg.Auth.SecretPepper)
	if err != nil {
		return err
	}
	owner := &model.User{
		Email:       cfg.Auth.OwnerEmail,
		DisplayName: "Owner",
		PasswordPHC: phc,
		Verified:    true,
		Role:        model.RoleOwner,
	}
	if err := users.Create(ctx, owner); err != nil {
		return err
	}
	log.Info("seeded owner account", zap.String("email", cfg.Auth.OwnerEmail))
	return nil
}
