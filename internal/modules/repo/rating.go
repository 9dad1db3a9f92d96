package repo

import (
	"context"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepo interface {
	// Upsert inserts or, on the (project_id, user_id) unique index, updates
	// the existing row's score and comment.
	Upsert(ctx context.Context, rt *model.Rating) error
	Get(ctx context.Context, id uuid.UUID) (*model.Rating, error)
	GetByRater(ctx context.Context, projectID, userID uuid.UUID) (*model.Rating, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Rating, error)
	Average(ctx context.Context, projectID uuid.UUID) (float64, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ratingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &ratingRepo{db: db}
}

func (r *ratingRepo) Upsert(ctx context.Context, rt *model.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "user_name", "updated_at"}),
	}).Create(rt).Error
}

func (r *ratingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	var rt model.Rating
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *ratingRepo) GetByRater(ctx context.Context, projectID, userID uuid.UUID) (*model.Rating, error) {
	var rt model.Rating
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *ratingRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Rating, error) {
	var list []model.Rating
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// Average recomputes the mean score from the stored rows; nothing is cached.
func (r *ratingRepo) Average(ctx context.Context, projectID uuid.UUID) (float64, int64, error) {
	type agg struct {
		Avg   float64
		Count int64
	}
	var a agg
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("project_id = ?", projectID).
		Take(&a).Error
	if err != nil {
		return 0, 0, err
	}
	return a.Avg, a.Count, nil
}

func (r *ratingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Rating{}).Error
}
