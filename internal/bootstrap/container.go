package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/infra/blob"
	"github.com/arabshield/portal/internal/infra/cache"
	"github.com/arabshield/portal/internal/infra/db"
	"github.com/arabshield/portal/internal/infra/logger"
	mq "github.com/arabshield/portal/internal/infra/queue"
	"github.com/arabshield/portal/internal/modules/handler"
	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/repo"
	"github.com/arabshield/portal/internal/modules/service"
	"github.com/arabshield/portal/internal/realtime"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.AutoMigrate(
				&model.User{},
				&model.AccountSession{},
				&model.Project{},
				&model.Task{},
				&model.Ticket{},
				&model.Document{},
				&model.ChatMessage{},
				&model.Rating{},
				&model.Notification{},
				&model.SystemSettings{},
			)
		}

		if err := SeedDefaults(context.Background(), d, cfg, log); err != nil {
			return nil, err
		}

		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// RabbitMQ DialFunc for connection and reconnection
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")

			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}

			return amqp.Dial(cfg.RabbitMQ.URL)
		}

		return dialFn, nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return dialFn()
	})

	// RabbitMQ Publisher
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		log := do.MustInvoke[*zap.Logger](i)
		return mq.NewPublisher(conn, log, cfg)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Change bus and hub
	do.Provide(inj, func(i *do.Injector) (realtime.Bus, error) {
		return realtime.NewRedisBus(
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*realtime.Hub, error) {
		hub := realtime.NewHub(
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		)
		registerEntityStreams(hub, i)
		return hub, nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.AccountSessionRepo, error) {
		return repo.NewAccountSessionRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TaskRepo, error) {
		return repo.NewTaskRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TicketRepo, error) {
		return repo.NewTicketRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.DocumentRepo, error) {
		return repo.NewDocumentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ChatMessageRepo, error) {
		return repo.NewChatMessageRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.RatingRepo, error) {
		return repo.NewRatingRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.NotificationRepo, error) {
		return repo.NewNotificationRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.SettingsRepo, error) {
		return repo.NewSettingsRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		return service.NewAuthService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[repo.AccountSessionRepo](i),
			do.MustInvoke[repo.SettingsRepo](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.NotificationService, error) {
		return service.NewNotificationService(
			do.MustInvoke[repo.NotificationRepo](i),
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[repo.SettingsRepo](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		return service.NewUserService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[repo.AccountSessionRepo](i),
			do.MustInvoke[service.NotificationService](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.SettingsRepo](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TaskService, error) {
		return service.NewTaskService(
			do.MustInvoke[repo.TaskRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[service.NotificationService](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TicketService, error) {
		return service.NewTicketService(
			do.MustInvoke[repo.TicketRepo](i),
			do.MustInvoke[service.NotificationService](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DocumentService, error) {
		return service.NewDocumentService(
			do.MustInvoke[repo.DocumentRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ChatService, error) {
		return service.NewChatService(
			do.MustInvoke[repo.ChatMessageRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RatingService, error) {
		return service.NewRatingService(
			do.MustInvoke[repo.RatingRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SettingsService, error) {
		return service.NewSettingsService(
			do.MustInvoke[repo.SettingsRepo](i),
			do.MustInvoke[realtime.Bus](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		return handler.NewAuthHandler(do.MustInvoke[service.AuthService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UserHandler, error) {
		return handler.NewUserHandler(do.MustInvoke[service.UserService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TaskHandler, error) {
		return handler.NewTaskHandler(do.MustInvoke[service.TaskService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TicketHandler, error) {
		return handler.NewTicketHandler(do.MustInvoke[service.TicketService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DocumentHandler, error) {
		return handler.NewDocumentHandler(do.MustInvoke[service.DocumentService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ChatHandler, error) {
		return handler.NewChatHandler(do.MustInvoke[service.ChatService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.RatingHandler, error) {
		return handler.NewRatingHandler(do.MustInvoke[service.RatingService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.NotificationHandler, error) {
		return handler.NewNotificationHandler(do.MustInvoke[service.NotificationService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SettingsHandler, error) {
		return handler.NewSettingsHandler(do.MustInvoke[service.SettingsService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SubscribeHandler, error) {
		return handler.NewSubscribeHandler(
			do.MustInvoke[*realtime.Hub](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	return inj
}
