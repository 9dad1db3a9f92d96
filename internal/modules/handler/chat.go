package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(s service.ChatService) *ChatHandler {
	return &ChatHandler{svc: s}
}

type SendMessageReq struct {
	Message string `json:"message" binding:"required,min=1,max=4000"`
}

// SendMessage godoc
//
//	@Summary		Send a chat message
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string			true	"Project ID"	format(uuid)
//	@Param			body		body	SendMessageReq	true	"Message"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ChatMessage}
//	@Router			/dashboard/projects/{project_id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	req := SendMessageReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	m, err := h.svc.Send(c.Request.Context(), u, projectID, req.Message)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: m})
}

// ListMessages godoc
//
//	@Summary		List chat messages
//	@Description	A project's messages, oldest first.
//	@Tags			chat
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.ChatMessage}
//	@Router			/dashboard/projects/{project_id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	list, err := h.svc.List(c.Request.Context(), u, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: list})
}

// DeleteMessage godoc
//
//	@Summary		Delete a chat message
//	@Description	Only the sender or an admin may delete a message.
//	@Tags			chat
//	@Produce		json
//	@Param			message_id	path	string	true	"Message ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/messages/{message_id} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid message_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
