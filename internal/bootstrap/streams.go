package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/arabshield/portal/internal/infra/blob"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/modules/service"
	"github.com/arabshield/portal/internal/pkg/roles"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/google/uuid"
	"github.com/samber/do"
	"gorm.io/gorm"
)

const streamPresignTTL = 15 * time.Minute

// registerEntityStreams wires every subscribable collection into the hub.
// Authorization mirrors the HTTP layer: owners see their own scopes, admins
// see everything, and the roster/settings streams are admin-only.
func registerEntityStreams(hub *realtime.Hub, i *do.Injector) {
	users := do.MustInvoke[repo.UserRepo](i)
	projects := do.MustInvoke[repo.ProjectRepo](i)
	tasks := do.MustInvoke[repo.TaskRepo](i)
	tickets := do.MustInvoke[repo.TicketRepo](i)
	documents := do.MustInvoke[repo.DocumentRepo](i)
	messages := do.MustInvoke[repo.ChatMessageRepo](i)
	ratings := do.MustInvoke[repo.RatingRepo](i)
	notifications := do.MustInvoke[repo.NotificationRepo](i)
	settings := do.MustInvoke[repo.SettingsRepo](i)
	blobs := do.MustInvoke[*blob.S3Deps](i)

	// authorizeSelfScope admits the principal whose id is the scope key, or
	// any admin.
	authorizeSelfScope := func(_ context.Context, principal *model.User, scopeKey string) error {
		id, err := uuid.Parse(scopeKey)
		if err != nil {
			return realtime.ErrScopeDenied
		}
		if id != principal.ID && !roles.IsAdminRole(principal.Role) {
			return realtime.ErrScopeDenied
		}
		return nil
	}

	// authorizeProjectScope admits the project's owner or any admin.
	authorizeProjectScope := func(ctx context.Context, principal *model.User, scopeKey string) error {
		id, err := uuid.Parse(scopeKey)
		if err != nil {
			return realtime.ErrScopeDenied
		}
		p, err := projects.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return realtime.ErrScopeDenied
			}
			return err
		}
		if p.OwnerID != principal.ID && !roles.IsAdminRole(principal.Role) {
			return realtime.ErrScopeDenied
		}
		return nil
	}

	authorizeAdminScope := func(_ context.Context, principal *model.User, _ string) error {
		if !roles.IsAdminRole(principal.Role) {
			return realtime.ErrScopeDenied
		}
		return nil
	}

	hub.RegisterEntity(realtime.EntityProjects, realtime.EntityStream{
		Authorize: authorizeSelfScope,
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			return projects.ListByOwner(ctx, id)
		},
	})

	hub.RegisterEntity(realtime.EntityTasks, realtime.EntityStream{
		Authorize: authorizeProjectScope,
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			return tasks.ListByProject(ctx, id)
		},
	})

	hub.RegisterEntity(realtime.EntityTickets, realtime.EntityStream{
		Authorize: func(ctx context.Context, principal *model.User, scopeKey string) error {
			if scopeKey == realtime.AdminScope {
				return authorizeAdminScope(ctx, principal, scopeKey)
			}
			return authorizeSelfScope(ctx, principal, scopeKey)
		},
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			if scopeKey == realtime.AdminScope {
				return tickets.ListAll(ctx)
			}
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			return tickets.ListByAuthor(ctx, id)
		},
	})

	hub.RegisterEntity(realtime.EntityDocuments, realtime.EntityStream{
		Authorize: authorizeProjectScope,
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			docs, err := documents.ListByProject(ctx, id)
			if err != nil {
				return nil, err
			}
			out := make([]service.DocumentOutput, 0, len(docs))
			for _, d := range docs {
				url, _ := blobs.PresignGet(ctx, d.BlobKey, streamPresignTTL)
				out = append(out, service.DocumentOutput{Document: d, DownloadURL: url})
			}
			return out, nil
		},
	})

	hub.RegisterEntity(realtime.EntityMessages, realtime.EntityStream{
		Authorize: authorizeProjectScope,
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			return messages.ListByProject(ctx, id)
		},
	})

	hub.RegisterEntity(realtime.EntityRatings, realtime.EntityStream{
		Authorize: authorizeProjectScope,
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			return ratings.ListByProject(ctx, id)
		},
	})

	hub.RegisterEntity(realtime.EntityNotifications, realtime.EntityStream{
		// Notifications are private: even admins only observe their own.
		Authorize: func(_ context.Context, principal *model.User, scopeKey string) error {
			id, err := uuid.Parse(scopeKey)
			if err != nil || id != principal.ID {
				return realtime.ErrScopeDenied
			}
			return nil
		},
		Snapshot: func(ctx context.Context, scopeKey string) (any, error) {
			id, err := uuid.Parse(scopeKey)
			if err != nil {
				return nil, err
			}
			return notifications.ListByRecipient(ctx, id)
		},
	})

	hub.RegisterEntity(realtime.EntityUsers, realtime.EntityStream{
		Authorize: authorizeAdminScope,
		Snapshot: func(ctx context.Context, _ string) (any, error) {
			return users.List(ctx, time.Time{}, uuid.Nil, 0, true)
		},
	})

	hub.RegisterEntity(realtime.EntitySettings, realtime.EntityStream{
		Authorize: authorizeAdminScope,
		Snapshot: func(ctx context.Context, _ string) (any, error) {
			return settings.Get(ctx)
		},
	})
}
