package service

import (
	"context"
	"time"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/paging"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultUserPageSize = 50

type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	// List is the admin roster, cursor-paginated newest first.
	List(ctx context.Context, principal *model.User, in ListUsersInput) (*ListUsersOutput, error)
	// ChangeRole assigns a role to another account. Principals cannot change
	// their own role, so an instance always keeps at least one acting admin.
	ChangeRole(ctx context.Context, principal *model.User, targetID uuid.UUID, role string) (*model.User, error)
	UpdateProfile(ctx context.Context, principal *model.User, in UpdateProfileInput) (*model.User, error)
	Delete(ctx context.Context, principal *model.User, targetID uuid.UUID) error
}

type userService struct {
	users         repo.UserRepo
	sessions      repo.AccountSessionRepo
	notifications NotificationService
	bus           realtime.Bus
	log           *zap.Logger
}

func NewUserService(users repo.UserRepo, sessions repo.AccountSessionRepo, notifications NotificationService, bus realtime.Bus, log *zap.Logger) UserService {
	return &userService{users: users, sessions: sessions, notifications: notifications, bus: bus, log: log}
}

type ListUsersInput struct {
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
}

type ListUsersOutput struct {
	Users      []*model.User `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	u.Role = roles.Normalize(u.Role)
	return u, nil
}

func (s *userService) List(ctx context.Context, principal *model.User, in ListUsersInput) (*ListUsersOutput, error) {
	if !roles.IsAdminRole(principal.Role) {
		return nil, ErrForbidden
	}

	limit := in.Limit
	if limit <= 0 || limit > defaultUserPageSize {
		limit = defaultUserPageSize
	}

	var (
		afterCreatedAt time.Time
		afterID        = uuid.Nil
	)
	if in.Cursor != "" {
		t, id, err := paging.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, err
		}
		afterCreatedAt, afterID = t, id
	}

	// Fetch one extra row to learn whether a next page exists.
	users, err := s.users.List(ctx, afterCreatedAt, afterID, limit+1, true)
	if err != nil {
		return nil, err
	}

	out := &ListUsersOutput{}
	if len(users) > limit {
		users = users[:limit]
		last := users[len(users)-1]
		out.NextCursor = paging.EncodeCursor(last.CreatedAt, last.ID)
	}
	for _, u := range users {
		u.Role = roles.Normalize(u.Role)
	}
	out.Users = users
	return out, nil
}

func (s *userService) ChangeRole(ctx context.Context, principal *model.User, targetID uuid.UUID, role string) (*model.User, error) {
	if !roles.IsAdminRole(principal.Role) {
		return nil, ErrForbidden
	}
	if targetID == principal.ID {
		return nil, ErrOwnRoleChange
	}
	if !roles.Known(role) {
		return nil, ErrUnknownRole
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	// The bootstrap owner account outranks admins and cannot be demoted by
	// them.
	if target.Role == model.RoleOwner && principal.Role != model.RoleOwner {
		return nil, ErrForbidden
	}

	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return nil, mapNotFound(err)
	}

	s.notifications.Notify(ctx, &model.Notification{
		RecipientID: targetID,
		Type:        model.NotificationTypeRoleChanged,
		Title:       "Your role was updated",
		Message:     "Your account role is now " + role,
		EntityType:  "user",
		EntityID:    targetID,
	})
	s.publish(ctx)

	target.Role = role
	return target, nil
}

func (s *userService) UpdateProfile(ctx context.Context, principal *model.User, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.DisplayName != nil {
		fields["display_name"] = *in.DisplayName
	}
	if len(fields) == 0 {
		return principal, nil
	}
	if err := s.users.UpdateProfile(ctx, principal.ID, fields); err != nil {
		return nil, err
	}
	s.publish(ctx)
	return s.users.GetByID(ctx, principal.ID)
}

func (s *userService) Delete(ctx context.Context, principal *model.User, targetID uuid.UUID) error {
	if !roles.IsAdminRole(principal.Role) {
		return ErrForbidden
	}
	if targetID == principal.ID {
		return ErrForbidden
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return mapNotFound(err)
	}
	if target.Role == model.RoleOwner {
		return ErrForbidden
	}

	// Dead sessions must not outlive the account.
	if err := s.sessions.RevokeAllForUser(ctx, targetID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *userService) publish(ctx context.Context) {
	err := s.bus.Publish(ctx, realtime.Event{
		Entity:   realtime.EntityUsers,
		ScopeKey: realtime.AdminScope,
	})
	if err != nil {
		s.log.Warn("failed to publish users change event", zap.Error(err))
	}
}
