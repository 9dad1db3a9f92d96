package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/arabshield/portal/docs"
	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/handler"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
	"github.com/arabshield/portal/internal/pkg/roles"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config              *config.Config
	Log                 *zap.Logger
	AuthService         service.AuthService
	SettingsService     service.SettingsService
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	TicketHandler       *handler.TicketHandler
	DocumentHandler     *handler.DocumentHandler
	ChatHandler         *handler.ChatHandler
	RatingHandler       *handler.RatingHandler
	NotificationHandler *handler.NotificationHandler
	SettingsHandler     *handler.SettingsHandler
	SubscribeHandler    *handler.SubscribeHandler
}

// registerValidators installs custom binding validators. "rolename" accepts
// only the four defined roles.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("rolename", func(fl validator.FieldLevel) bool {
			return roles.Known(fl.Field().String())
		})
	}
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.RequestLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.AuthHandler.Register)
			auth.POST("/login", d.AuthHandler.Login)
			auth.POST("/verify", d.AuthHandler.Verify)

			authed := auth.Group("")
			authed.Use(middleware.SessionAuth(d.AuthService, d.Log))
			{
				authed.POST("/logout", d.AuthHandler.Logout)
				authed.POST("/verify/resend", d.AuthHandler.ResendVerification)
				authed.GET("/me", d.AuthHandler.Me)
			}
		}

		// The live stream authenticates like any dashboard route; scope
		// checks happen per subscription inside the hub.
		subscribe := v1.Group("/subscribe")
		subscribe.Use(
			middleware.SessionAuth(d.AuthService, d.Log),
			middleware.RequireVerified(),
			middleware.MaintenanceGate(d.SettingsService),
		)
		{
			subscribe.GET("", d.SubscribeHandler.Subscribe)
		}

		dashboard := v1.Group("/dashboard")
		dashboard.Use(
			middleware.SessionAuth(d.AuthService, d.Log),
			middleware.RequireVerified(),
			middleware.MaintenanceGate(d.SettingsService),
		)
		{
			dashboard.PATCH("/profile", d.UserHandler.UpdateProfile)

			projects := dashboard.Group("/projects")
			{
				projects.GET("", d.ProjectHandler.ListProjects)
				projects.POST("", d.ProjectHandler.CreateProject)
				projects.GET("/:project_id", d.ProjectHandler.GetProject)
				projects.PATCH("/:project_id", d.ProjectHandler.UpdateProject)
				projects.DELETE("/:project_id", d.ProjectHandler.DeleteProject)

				projects.GET("/:project_id/tasks", d.TaskHandler.ListTasks)
				projects.POST("/:project_id/tasks", d.TaskHandler.CreateTask)

				projects.GET("/:project_id/documents", d.DocumentHandler.ListDocuments)
				projects.POST("/:project_id/documents", d.DocumentHandler.UploadDocuments)

				projects.GET("/:project_id/messages", d.ChatHandler.ListMessages)
				projects.POST("/:project_id/messages", d.ChatHandler.SendMessage)

				projects.GET("/:project_id/ratings", d.RatingHandler.ListRatings)
				projects.POST("/:project_id/ratings", d.RatingHandler.RateProject)
				projects.GET("/:project_id/ratings/summary", d.RatingHandler.RatingSummary)
			}

			tasks := dashboard.Group("/tasks")
			{
				tasks.PATCH("/:task_id", d.TaskHandler.UpdateTask)
				tasks.POST("/:task_id/toggle", d.TaskHandler.ToggleTask)
				tasks.DELETE("/:task_id", d.TaskHandler.DeleteTask)
			}

			dashboard.DELETE("/documents/:document_id", d.DocumentHandler.DeleteDocument)
			dashboard.DELETE("/messages/:message_id", d.ChatHandler.DeleteMessage)
			dashboard.DELETE("/ratings/:rating_id", d.RatingHandler.DeleteRating)

			tickets := dashboard.Group("/tickets")
			{
				tickets.GET("", d.TicketHandler.ListTickets)
				tickets.POST("", d.TicketHandler.CreateTicket)
				tickets.DELETE("/:ticket_id", d.TicketHandler.DeleteTicket)
			}

			notifications := dashboard.Group("/notifications")
			{
				notifications.GET("", d.NotificationHandler.ListNotifications)
				notifications.GET("/unread", d.NotificationHandler.UnreadCount)
				notifications.POST("/read-all", d.NotificationHandler.MarkAllRead)
				notifications.POST("/:notification_id/read", d.NotificationHandler.MarkRead)
				notifications.DELETE("/:notification_id", d.NotificationHandler.DeleteNotification)
			}

			admin := dashboard.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", d.UserHandler.ListUsers)
				admin.PATCH("/users/:user_id/role", d.UserHandler.ChangeRole)
				admin.DELETE("/users/:user_id", d.UserHandler.DeleteUser)

				admin.GET("/tickets", d.TicketHandler.ListAllTickets)
				admin.PATCH("/tickets/:ticket_id/status", d.TicketHandler.UpdateTicketStatus)

				admin.GET("/settings", d.SettingsHandler.GetSettings)
				admin.PATCH("/settings", d.SettingsHandler.UpdateSettings)
			}
		}
	}
	return r
}
