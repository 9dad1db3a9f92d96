package service

import (
	"context"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"go.uber.org/zap"
)

type SettingsService interface {
	// Get returns the singleton settings row. Admin-only; regular users see
	// settings only through their effects (registration gate, maintenance
	// banner).
	Get(ctx context.Context, principal *model.User) (*model.SystemSettings, error)
	Update(ctx context.Context, principal *model.User, in UpdateSettingsInput) (*model.SystemSettings, error)
	// MaintenanceOn reports whether maintenance mode currently locks out
	// non-admin traffic. Usable without a principal.
	MaintenanceOn(ctx context.Context) bool
}

type settingsService struct {
	settings repo.SettingsRepo
	bus      realtime.Bus
	log      *zap.Logger
}

func NewSettingsService(settings repo.SettingsRepo, bus realtime.Bus, log *zap.Logger) SettingsService {
	return &settingsService{settings: settings, bus: bus, log: log}
}

type UpdateSettingsInput struct {
	SiteName                  *string `json:"site_name"`
	MaintenanceMode           *bool   `json:"maintenance_mode"`
	AllowNewRegistrations     *bool   `json:"allow_new_registrations"`
	DefaultUserRole           *string `json:"default_user_role"`
	MaxProjectsPerUser        *int    `json:"max_projects_per_user"`
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled"`
}

func (s *settingsService) Get(ctx context.Context, principal *model.User) (*model.SystemSettings, error) {
	if !roles.IsAdminRole(principal.Role) {
		return nil, ErrForbidden
	}
	return s.settings.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, principal *model.User, in UpdateSettingsInput) (*model.SystemSettings, error) {
	if !roles.IsAdminRole(principal.Role) {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if in.SiteName != nil {
		fields["site_name"] = *in.SiteName
	}
	if in.MaintenanceMode != nil {
		fields["maintenance_mode"] = *in.MaintenanceMode
	}
	if in.AllowNewRegistrations != nil {
		fields["allow_new_registrations"] = *in.AllowNewRegistrations
	}
	if in.DefaultUserRole != nil {
		if !roles.Known(*in.DefaultUserRole) {
			return nil, ErrUnknownRole
		}
		fields["default_user_role"] = *in.DefaultUserRole
	}
	if in.MaxProjectsPerUser != nil {
		fields["max_projects_per_user"] = *in.MaxProjectsPerUser
	}
	if in.EmailNotificationsEnabled != nil {
		fields["email_notifications_enabled"] = *in.EmailNotificationsEnabled
	}

	if len(fields) > 0 {
		if err := s.settings.Update(ctx, fields); err != nil {
			return nil, err
		}
		err := s.bus.Publish(ctx, realtime.Event{
			Entity:   realtime.EntitySettings,
			ScopeKey: realtime.AdminScope,
		})
		if err != nil {
			s.log.Warn("failed to publish settings change event", zap.Error(err))
		}
	}
	return s.settings.Get(ctx)
}

func (s *settingsService) MaintenanceOn(ctx context.Context) bool {
	sysCfg, err := s.settings.Get(ctx)
	if err != nil {
		// Fail open: a settings outage should not lock the portal.
		s.log.Warn("failed to load settings for maintenance gate", zap.Error(err))
		return false
	}
	return sysCfg.MaintenanceMode
}
