package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type TicketHandler struct {
	svc service.TicketService
}

func NewTicketHandler(s service.TicketService) *TicketHandler {
	return &TicketHandler{svc: s}
}

type CreateTicketReq struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Message  string `json:"message" binding:"required,min=1,max=8000"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// CreateTicket godoc
//
//	@Summary		Open a support ticket
//	@Tags			ticket
//	@Accept			json
//	@Produce		json
//	@Param			body	body	CreateTicketReq	true	"Ticket"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Ticket}
//	@Router			/dashboard/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	req := CreateTicketReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	t, err := h.svc.Create(c.Request.Context(), u, service.CreateTicketInput{
		Title:    req.Title,
		Message:  req.Message,
		Priority: req.Priority,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// ListTickets godoc
//
//	@Summary		List my tickets
//	@Tags			ticket
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Ticket}
//	@Router			/dashboard/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	u, _ := middleware.Principal(c)

	list, err := h.svc.ListMine(c.Request.Context(), u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: list})
}

// ListAllTickets godoc
//
//	@Summary		Support queue
//	@Description	Every ticket across all authors. Admin only.
//	@Tags			ticket
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Ticket}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/tickets [get]
func (h *TicketHandler) ListAllTickets(c *gin.Context) {
	u, _ := middleware.Principal(c)

	list, err := h.svc.ListAll(c.Request.Context(), u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: list})
}

type UpdateTicketStatusReq struct {
	Status string `json:"status" binding:"required,oneof=open in-progress resolved"`
}

// UpdateTicketStatus godoc
//
//	@Summary		Advance a ticket
//	@Description	Move a ticket through the support workflow and notify its author. Admin only.
//	@Tags			ticket
//	@Accept			json
//	@Produce		json
//	@Param			ticket_id	path	string					true	"Ticket ID"	format(uuid)
//	@Param			body		body	UpdateTicketStatusReq	true	"New status"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Ticket}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/tickets/{ticket_id}/status [patch]
func (h *TicketHandler) UpdateTicketStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid ticket_id", err))
		return
	}
	req := UpdateTicketStatusReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	t, err := h.svc.UpdateStatus(c.Request.Context(), u, id, req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// DeleteTicket godoc
//
//	@Summary		Delete a ticket
//	@Tags			ticket
//	@Produce		json
//	@Param			ticket_id	path	string	true	"Ticket ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/tickets/{ticket_id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid ticket_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
