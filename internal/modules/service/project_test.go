package service

import (
	"context"
	"testing"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newProjectFixtures() (*MockProjectRepo, *MockSettingsRepo, *MockBus, ProjectService) {
	projects := &MockProjectRepo{}
	settings := &MockSettingsRepo{}
	bus := &MockBus{}
	svc := NewProjectService(projects, settings, bus, zap.NewNop())
	return projects, settings, bus, svc
}

func TestProjectService_Create_StampsOwnerFromPrincipal(t *testing.T) {
	projects, settings, bus, svc := newProjectFixtures()
	principal := &model.User{ID: uuid.New(), Role: model.RoleClient}

	settings.On("Get", mock.Anything).Return(&model.SystemSettings{MaxProjectsPerUser: 10}, nil)
	projects.On("CountByOwner", mock.Anything, principal.ID).Return(int64(2), nil)
	projects.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
		return p.OwnerID == principal.ID &&
			p.Status == model.ProjectStatusActive &&
			p.Progress == 0
	})).Return(nil)
	bus.On("Publish", mock.Anything, realtime.Event{
		Entity:   realtime.EntityProjects,
		ScopeKey: principal.ID.String(),
	}).Return(nil)

	p, err := svc.Create(context.Background(), principal, CreateProjectInput{Title: "حماية الموقع"})
	assert.NoError(t, err)
	assert.Equal(t, principal.ID, p.OwnerID)
	projects.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestProjectService_Create_QuotaExceeded(t *testing.T) {
	projects, settings, _, svc := newProjectFixtures()
	principal := &model.User{ID: uuid.New(), Role: model.RoleClient}

	settings.On("Get", mock.Anything).Return(&model.SystemSettings{MaxProjectsPerUser: 3}, nil)
	projects.On("CountByOwner", mock.Anything, principal.ID).Return(int64(3), nil)

	_, err := svc.Create(context.Background(), principal, CreateProjectInput{Title: "x"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_Create_AdminSkipsQuota(t *testing.T) {
	projects, settings, bus, svc := newProjectFixtures()
	admin := &model.User{ID: uuid.New(), Role: model.RoleOwner}

	projects.On("Create", mock.Anything, mock.Anything).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), admin, CreateProjectInput{Title: "x"})
	assert.NoError(t, err)
	settings.AssertNotCalled(t, "Get", mock.Anything)
	projects.AssertNotCalled(t, "CountByOwner", mock.Anything, mock.Anything)
}

func TestProjectService_Update_ClampsProgress(t *testing.T) {
	projects, _, bus, svc := newProjectFixtures()
	principal := &model.User{ID: uuid.New(), Role: model.RoleClient}
	project := &model.Project{ID: uuid.New(), OwnerID: principal.ID}

	over := 150
	projects.On("Get", mock.Anything, project.ID).Return(project, nil)
	projects.On("Update", mock.Anything, project.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["progress"] == 100
	})).Return(nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Update(context.Background(), principal, project.ID, UpdateProjectInput{Progress: &over})
	assert.NoError(t, err)
	projects.AssertExpectations(t)
}

func TestProjectService_List_OnlyOwnUnlessAdmin(t *testing.T) {
	projects, _, _, svc := newProjectFixtures()
	principal := &model.User{ID: uuid.New(), Role: model.RoleMember}
	other := uuid.New()

	_, err := svc.List(context.Background(), principal, other)
	assert.ErrorIs(t, err, ErrForbidden)

	projects.On("ListByOwner", mock.Anything, other).Return([]model.Project{}, nil)
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	_, err = svc.List(context.Background(), admin, other)
	assert.NoError(t, err)
}
