package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: s}
}

// ListNotifications godoc
//
//	@Summary		List my notifications
//	@Tags			notification
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Notification}
//	@Router			/dashboard/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	u, _ := middleware.Principal(c)

	list, err := h.svc.List(c.Request.Context(), u.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: list})
}

type UnreadCountOutput struct {
	Unread int64 `json:"unread"`
}

// UnreadCount godoc
//
//	@Summary		Unread notification count
//	@Tags			notification
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=UnreadCountOutput}
//	@Router			/dashboard/notifications/unread [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	u, _ := middleware.Principal(c)

	n, err := h.svc.UnreadCount(c.Request.Context(), u.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: UnreadCountOutput{Unread: n}})
}

// MarkRead godoc
//
//	@Summary		Mark a notification read
//	@Description	The read flag only moves forward; there is no unread operation.
//	@Tags			notification
//	@Produce		json
//	@Param			notification_id	path	string	true	"Notification ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/notifications/{notification_id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid notification_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.MarkRead(c.Request.Context(), u.ID, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// MarkAllRead godoc
//
//	@Summary		Mark every notification read
//	@Tags			notification
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/dashboard/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	u, _ := middleware.Principal(c)

	if err := h.svc.MarkAllRead(c.Request.Context(), u.ID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// DeleteNotification godoc
//
//	@Summary		Delete a notification
//	@Tags			notification
//	@Produce		json
//	@Param			notification_id	path	string	true	"Notification ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/dashboard/notifications/{notification_id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid notification_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u.ID, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
