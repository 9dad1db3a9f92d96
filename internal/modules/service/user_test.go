package service

import (
	"context"
	"testing"
	"time"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/pkg/paging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newUserFixtures() (*MockUserRepo, *MockSessionRepo, *MockNotificationService, *MockBus, UserService) {
	users := &MockUserRepo{}
	sessions := &MockSessionRepo{}
	notifications := &MockNotificationService{}
	bus := &MockBus{}
	svc := NewUserService(users, sessions, notifications, bus, zap.NewNop())
	return users, sessions, notifications, bus, svc
}

func TestUserService_ChangeRole(t *testing.T) {
	adminID := uuid.New()
	targetID := uuid.New()

	tests := []struct {
		name      string
		principal *model.User
		targetID  uuid.UUID
		target    *model.User
		role      string
		wantErr   error
	}{
		{
			name:      "admin promotes a member",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  targetID,
			target:    &model.User{ID: targetID, Role: model.RoleMember},
			role:      model.RoleAdmin,
		},
		{
			name:      "members cannot change roles",
			principal: &model.User{ID: adminID, Role: model.RoleMember},
			targetID:  targetID,
			role:      model.RoleAdmin,
			wantErr:   ErrForbidden,
		},
		{
			name:      "principal cannot change their own role",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  adminID,
			role:      model.RoleClient,
			wantErr:   ErrOwnRoleChange,
		},
		{
			name:      "unknown role is rejected",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  targetID,
			role:      "superuser",
			wantErr:   ErrUnknownRole,
		},
		{
			name:      "admin cannot demote the owner account",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  targetID,
			target:    &model.User{ID: targetID, Role: model.RoleOwner},
			role:      model.RoleClient,
			wantErr:   ErrForbidden,
		},
		{
			name:      "owner can reassign the owner account",
			principal: &model.User{ID: adminID, Role: model.RoleOwner},
			targetID:  targetID,
			target:    &model.User{ID: targetID, Role: model.RoleOwner},
			role:      model.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, notifications, bus, svc := newUserFixtures()

			if tt.target != nil {
				users.On("GetByID", mock.Anything, tt.targetID).Return(tt.target, nil)
			}
			if tt.wantErr == nil {
				users.On("UpdateRole", mock.Anything, tt.targetID, tt.role).Return(nil)
				notifications.On("Notify", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
					return n.RecipientID == tt.targetID && n.Type == model.NotificationTypeRoleChanged
				})).Return()
				bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
			}

			out, err := svc.ChangeRole(context.Background(), tt.principal, tt.targetID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.role, out.Role)
			users.AssertExpectations(t)
			notifications.AssertExpectations(t)
		})
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	users, _, _, _, svc := newUserFixtures()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	// Three rows back for a page size of two means a next page exists.
	page := []*model.User{
		{ID: uuid.New(), Role: model.RoleClient, CreatedAt: time.Now()},
		{ID: uuid.New(), Role: "", CreatedAt: time.Now().Add(-time.Minute)},
		{ID: uuid.New(), Role: model.RoleMember, CreatedAt: time.Now().Add(-2 * time.Minute)},
	}
	users.On("List", mock.Anything, time.Time{}, uuid.Nil, 3, true).Return(page, nil)

	out, err := svc.List(context.Background(), admin, ListUsersInput{Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, out.Users, 2)
	assert.NotEmpty(t, out.NextCursor)
	// A blank stored role reads back as the default role.
	assert.Equal(t, model.RoleClient, out.Users[1].Role)

	gotTime, gotID, err := paging.DecodeCursor(out.NextCursor)
	assert.NoError(t, err)
	assert.Equal(t, page[1].ID, gotID)
	assert.WithinDuration(t, page[1].CreatedAt, gotTime, time.Second)
}

func TestUserService_List_ForbiddenForNonAdmins(t *testing.T) {
	_, _, _, _, svc := newUserFixtures()
	member := &model.User{ID: uuid.New(), Role: model.RoleMember}

	_, err := svc.List(context.Background(), member, ListUsersInput{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_List_InvalidCursor(t *testing.T) {
	_, _, _, _, svc := newUserFixtures()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	_, err := svc.List(context.Background(), admin, ListUsersInput{Cursor: "not-a-cursor"})
	assert.ErrorIs(t, err, paging.ErrInvalidCursor)
}

func TestUserService_Delete(t *testing.T) {
	adminID := uuid.New()
	targetID := uuid.New()

	tests := []struct {
		name      string
		principal *model.User
		targetID  uuid.UUID
		target    *model.User
		wantErr   error
	}{
		{
			name:      "admin removes a client account",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  targetID,
			target:    &model.User{ID: targetID, Role: model.RoleClient},
		},
		{
			name:      "admins cannot delete themselves",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  adminID,
			wantErr:   ErrForbidden,
		},
		{
			name:      "the owner account cannot be deleted",
			principal: &model.User{ID: adminID, Role: model.RoleAdmin},
			targetID:  targetID,
			target:    &model.User{ID: targetID, Role: model.RoleOwner},
			wantErr:   ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, sessions, _, bus, svc := newUserFixtures()

			if tt.target != nil {
				users.On("GetByID", mock.Anything, tt.targetID).Return(tt.target, nil)
			}
			if tt.wantErr == nil {
				sessions.On("RevokeAllForUser", mock.Anything, tt.targetID).Return(nil)
				users.On("Delete", mock.Anything, tt.targetID).Return(nil)
				bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
			}

			err := svc.Delete(context.Background(), tt.principal, tt.targetID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			sessions.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}
