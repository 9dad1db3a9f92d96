package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/realtime"
)

type SubscribeHandler struct {
	hub *realtime.Hub
	log *zap.Logger

	upgrader websocket.Upgrader
}

func NewSubscribeHandler(hub *realtime.Hub, log *zap.Logger) *SubscribeHandler {
	return &SubscribeHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Auth is the bearer session, not the Origin header. The API is
			// token-gated so cross-origin upgrades carry no ambient credit.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Subscribe godoc
//
//	@Summary		Live collection stream
//	@Description	Upgrade to a WebSocket. Send {"action":"subscribe","entity":"tasks","scope_key":"<project-id>"} to observe a collection; every change delivers a fresh snapshot. One scope per entity per connection; re-subscribing replaces the previous scope. An empty scope key yields an immediate empty snapshot and opens nothing.
//	@Tags			realtime
//	@Security		BearerAuth
//	@Success		101	{string}	string	"Switching Protocols"
//	@Router			/subscribe [get]
func (h *SubscribeHandler) Subscribe(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Serve(c.Request.Context(), conn, principal)
}
