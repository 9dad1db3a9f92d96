package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/service"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, principal *model.User, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, principal *model.User, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, principal *model.User, ownerID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, principal, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, principal *model.User, id uuid.UUID, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, principal, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

func setupProjectRouter(svc *MockProjectService, principal *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProjectHandler(svc)
	r := gin.New()
	withPrincipal := func(fn gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("principal", principal)
			fn(c)
		}
	}
	r.POST("/projects", withPrincipal(h.CreateProject))
	r.GET("/projects", withPrincipal(h.ListProjects))
	return r
}

func TestProjectHandler_CreateProject(t *testing.T) {
	principal := &model.User{ID: uuid.New(), Role: model.RoleClient}

	tests := []struct {
		name           string
		body           string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "successful creation",
			body: `{"title":"Pentest Q3","description":"External scope","tags":["web"]}`,
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, principal, service.CreateProjectInput{
					Title:       "Pentest Q3",
					Description: "External scope",
					Tags:        []string{"web"},
				}).Return(&model.Project{ID: uuid.New(), OwnerID: principal.ID, Title: "Pentest Q3"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing title",
			body:           `{"description":"no title"}`,
			setup:          func(*MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "quota exceeded",
			body: `{"title":"One too many"}`,
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, principal, mock.Anything).
					Return(nil, service.ErrQuotaExceeded)
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)
			router := setupProjectRouter(mockService, principal)

			req := httptest.NewRequest("POST", "/projects", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_ListProjects(t *testing.T) {
	principal := &model.User{ID: uuid.New(), Role: model.RoleClient}
	other := uuid.New()

	tests := []struct {
		name           string
		query          string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "defaults to own projects",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything, principal, principal.ID).
					Return([]model.Project{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "non-admin inspecting another owner is refused",
			query: "?owner_id=" + other.String(),
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything, principal, other).
					Return(nil, service.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "malformed owner_id",
			query:          "?owner_id=not-a-uuid",
			setup:          func(*MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)
			router := setupProjectRouter(mockService, principal)

			req := httptest.NewRequest("GET", "/projects"+tt.query, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
