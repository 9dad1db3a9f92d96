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

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Create(ctx context.Context, principal *model.User, in service.CreateTicketInput) (*model.Ticket, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) ListMine(ctx context.Context, principal *model.User) ([]model.Ticket, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *MockTicketService) ListAll(ctx context.Context, principal *model.User) ([]model.Ticket, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *MockTicketService) UpdateStatus(ctx context.Context, principal *model.User, id uuid.UUID, status string) (*model.Ticket, error) {
	args := m.Called(ctx, principal, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	args := m.Called(ctx, principal, id)
	return args.Error(0)
}

func setupTicketRouter(svc *MockTicketService, principal *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTicketHandler(svc)
	r := gin.New()
	withPrincipal := func(fn gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("principal", principal)
			fn(c)
		}
	}
	r.PATCH("/tickets/:ticket_id/status", withPrincipal(h.UpdateTicketStatus))
	return r
}

func TestTicketHandler_UpdateTicketStatus(t *testing.T) {
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	ticketID := uuid.New()

	tests := []struct {
		name           string
		ticketID       string
		body           string
		setup          func(*MockTicketService)
		expectedStatus int
	}{
		{
			name:     "successful transition",
			ticketID: ticketID.String(),
			body:     `{"status":"resolved"}`,
			setup: func(svc *MockTicketService) {
				svc.On("UpdateStatus", mock.Anything, admin, ticketID, "resolved").
					Return(&model.Ticket{ID: ticketID, Status: "resolved"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "status outside the workflow",
			ticketID:       ticketID.String(),
			body:           `{"status":"escalated"}`,
			setup:          func(*MockTicketService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed ticket id",
			ticketID:       "not-a-uuid",
			body:           `{"status":"resolved"}`,
			setup:          func(*MockTicketService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "ticket not found",
			ticketID: ticketID.String(),
			body:     `{"status":"resolved"}`,
			setup: func(svc *MockTicketService) {
				svc.On("UpdateStatus", mock.Anything, admin, ticketID, "resolved").
					Return(nil, service.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockTicketService{}
			tt.setup(mockService)
			router := setupTicketRouter(mockService, admin)

			req := httptest.NewRequest("PATCH", "/tickets/"+tt.ticketID+"/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
