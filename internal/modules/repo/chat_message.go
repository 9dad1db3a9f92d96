package repo

import (
	"context"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, m *model.ChatMessage) error
	Get(ctx context.Context, id uuid.UUID) (*model.ChatMessage, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ChatMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type chatMessageRepo struct{ db *gorm.DB }

func NewChatMessageRepo(db *gorm.DB) ChatMessageRepo {
	return &chatMessageRepo{db: db}
}

func (r *chatMessageRepo) Create(ctx context.Context, m *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *chatMessageRepo) Get(ctx context.Context, id uuid.UUID) (*model.ChatMessage, error) {
	var m model.ChatMessage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *chatMessageRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ChatMessage, error) {
	var list []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *chatMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ChatMessage{}).Error
}
