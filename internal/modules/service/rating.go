package service

import (
	"context"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ratingMinScore = 1
	ratingMaxScore = 5
)

type RatingService interface {
	// Rate records the principal's score for a project. Rating the same
	// project twice replaces the earlier score instead of stacking a second
	// row.
	Rate(ctx context.Context, principal *model.User, in RateInput) (*model.Rating, error)
	List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]model.Rating, error)
	// Summary computes the live average; nothing aggregate is stored.
	Summary(ctx context.Context, principal *model.User, projectID uuid.UUID) (*RatingSummary, error)
	// Delete removes a rating. Only its author or an admin may.
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type ratingService struct {
	ratings  repo.RatingRepo
	projects repo.ProjectRepo
	bus      realtime.Bus
	log      *zap.Logger
}

func NewRatingService(ratings repo.RatingRepo, projects repo.ProjectRepo, bus realtime.Bus, log *zap.Logger) RatingService {
	return &ratingService{ratings: ratings, projects: projects, bus: bus, log: log}
}

type RateInput struct {
	ProjectID uuid.UUID `json:"project_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
}

type RatingSummary struct {
	ProjectID uuid.UUID `json:"project_id"`
	Average   float64   `json:"average"`
	Count     int64     `json:"count"`
}

func (s *ratingService) Rate(ctx context.Context, principal *model.User, in RateInput) (*model.Rating, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, in.ProjectID); err != nil {
		return nil, err
	}
	if in.Score < ratingMinScore || in.Score > ratingMaxScore {
		return nil, ErrInvalidScore
	}

	rt := &model.Rating{
		ProjectID: in.ProjectID,
		UserID:    principal.ID,
		UserName:  principal.DisplayName,
		Score:     in.Score,
		Comment:   in.Comment,
	}
	if err := s.ratings.Upsert(ctx, rt); err != nil {
		return nil, err
	}

	s.publish(ctx, in.ProjectID)
	return s.ratings.GetByRater(ctx, in.ProjectID, principal.ID)
}

func (s *ratingService) List(ctx context.Context, principal *model.User, projectID uuid.UUID) ([]model.Rating, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}
	return s.ratings.ListByProject(ctx, projectID)
}

func (s *ratingService) Summary(ctx context.Context, principal *model.User, projectID uuid.UUID) (*RatingSummary, error) {
	if _, err := loadProjectFor(ctx, s.projects, principal, projectID); err != nil {
		return nil, err
	}
	avg, count, err := s.ratings.Average(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{ProjectID: projectID, Average: avg, Count: count}, nil
}

func (s *ratingService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	rt, err := s.ratings.Get(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if rt.UserID != principal.ID && !roles.IsAdminRole(principal.Role) {
		return ErrForbidden
	}
	if err := s.ratings.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, rt.ProjectID)
	return nil
}

func (s *ratingService) publish(ctx context.Context, projectID uuid.UUID) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityRatings,
		ScopeKey: projectID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish ratings change event", zap.Error(err))
	}
}
