package service

import (
	"context"
	"errors"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// mapNotFound translates the gorm sentinel into the service one and leaves
// every other error untouched.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// loadProjectFor fetches a project and enforces the ownership rule shared by
// every project-scoped collection: the owner sees their own, admins see all.
// Non-owners get ErrForbidden, a missing row ErrNotFound.
func loadProjectFor(ctx context.Context, projects repo.ProjectRepo, principal *model.User, projectID uuid.UUID) (*model.Project, error) {
	p, err := projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.OwnerID != principal.ID && !roles.IsAdminRole(principal.Role) {
		return nil, ErrForbidden
	}
	return p, nil
}
