package repo

import (
	"context"
	"time"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountSessionRepo interface {
	Create(ctx context.Context, s *model.AccountSession) error
	GetByTokenHMAC(ctx context.Context, tokenHMAC string) (*model.AccountSession, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type accountSessionRepo struct{ db *gorm.DB }

func NewAccountSessionRepo(db *gorm.DB) AccountSessionRepo {
	return &accountSessionRepo{db: db}
}

func (r *accountSessionRepo) Create(ctx context.Context, s *model.AccountSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *accountSessionRepo) GetByTokenHMAC(ctx context.Context, tokenHMAC string) (*model.AccountSession, error) {
	var s model.AccountSession
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("token_hmac = ?", tokenHMAC).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *accountSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.AccountSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now).Error
}

func (r *accountSessionRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.AccountSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

func (r *accountSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.AccountSession{})
	return res.RowsAffected, res.Error
}
