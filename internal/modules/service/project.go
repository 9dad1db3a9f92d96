package service

import (
	"context"
	"errors"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectService interface {
	Create(ctx context.Context, principal *model.User, in CreateProjectInput) (*model.Project, error)
	Get(ctx context.Context, principal *model.User, id uuid.UUID) (*model.Project, error)
	// List returns the projects owned by ownerID. Non-admins may only list
	// their own.
	List(ctx context.Context, principal *model.User, ownerID uuid.UUID) ([]model.Project, error)
	Update(ctx context.Context, principal *model.User, id uuid.UUID, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
}

type projectService struct {
	projects repo.ProjectRepo
	settings repo.SettingsRepo
	bus      realtime.Bus
	log      *zap.Logger
}

func NewProjectService(projects repo.ProjectRepo, settings repo.SettingsRepo, bus realtime.Bus, log *zap.Logger) ProjectService {
	return &projectService{projects: projects, settings: settings, bus: bus, log: log}
}

type CreateProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UpdateProjectInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Progress    *int     `json:"progress"`
	Tags        []string `json:"tags"`
}

func validProjectStatus(s string) bool {
	switch s {
	case model.ProjectStatusActive, model.ProjectStatusOnHold, model.ProjectStatusCompleted:
		return true
	}
	return false
}

func (s *projectService) Create(ctx context.Context, principal *model.User, in CreateProjectInput) (*model.Project, error) {
	// The quota binds regular users only; admins provision on behalf of
	// clients without it.
	if !roles.IsAdminRole(principal.Role) {
		sysCfg, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		if sysCfg.MaxProjectsPerUser > 0 {
			n, err := s.projects.CountByOwner(ctx, principal.ID)
			if err != nil {
				return nil, err
			}
			if n >= int64(sysCfg.MaxProjectsPerUser) {
				return nil, ErrQuotaExceeded
			}
		}
	}

	p := &model.Project{
		// Ownership always comes from the session principal, never from
		// the request body.
		OwnerID:     principal.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.ProjectStatusActive,
		Progress:    0,
		Tags:        datatypes.NewJSONSlice(in.Tags),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, p.OwnerID)
	return p, nil
}

func (s *projectService) Get(ctx context.Context, principal *model.User, id uuid.UUID) (*model.Project, error) {
	return loadProjectFor(ctx, s.projects, principal, id)
}

func (s *projectService) List(ctx context.Context, principal *model.User, ownerID uuid.UUID) ([]model.Project, error) {
	if ownerID != principal.ID && !roles.IsAdminRole(principal.Role) {
		return nil, ErrForbidden
	}
	return s.projects.ListByOwner(ctx, ownerID)
}

func (s *projectService) Update(ctx context.Context, principal *model.User, id uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	p, err := loadProjectFor(ctx, s.projects, principal, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if !validProjectStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *in.Status
	}
	if in.Progress != nil {
		progress := *in.Progress
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		fields["progress"] = progress
	}
	if in.Tags != nil {
		fields["tags"] = datatypes.NewJSONSlice(in.Tags)
	}
	if len(fields) == 0 {
		return p, nil
	}

	if err := s.projects.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publish(ctx, p.OwnerID)
	return s.projects.Get(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	p, err := loadProjectFor(ctx, s.projects, principal, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, p.OwnerID)
	return nil
}

func (s *projectService) publish(ctx context.Context, ownerID uuid.UUID) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityProjects,
		ScopeKey: ownerID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish projects change event", zap.Error(err))
	}
}
