package repo

import (
	"context"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepo interface {
	Create(ctx context.Context, t *model.Ticket) error
	Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Ticket, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepo(db *gorm.DB) TicketRepo {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Ticket, error) {
	var list []model.Ticket
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *ticketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	var list []model.Ticket
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *ticketRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ticketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Ticket{}).Error
}
