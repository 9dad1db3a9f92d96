package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{svc: s}
}

type ListUsersReq struct {
	Limit  int    `form:"limit,default=50" binding:"omitempty,min=1,max=50"`
	Cursor string `form:"cursor"`
}

// ListUsers godoc
//
//	@Summary		User roster
//	@Description	Cursor-paginated list of all accounts, newest first. Admin only.
//	@Tags			user
//	@Produce		json
//	@Param			limit	query	integer	false	"Page size, default and max 50"
//	@Param			cursor	query	string	false	"Cursor from the previous page"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListUsersOutput}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	req := ListUsersReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	out, err := h.svc.List(c.Request.Context(), u, service.ListUsersInput{
		Cursor: req.Cursor,
		Limit:  req.Limit,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type ChangeRoleReq struct {
	Role string `json:"role" binding:"required,rolename"`
}

// ChangeRole godoc
//
//	@Summary		Change an account's role
//	@Description	Assign client, member, admin or owner. Admins cannot change their own role or touch the owner account.
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Param			user_id	path	string			true	"User ID"	format(uuid)
//	@Param			body	body	ChangeRoleReq	true	"New role"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/users/{user_id}/role [patch]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid user_id", err))
		return
	}
	req := ChangeRoleReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	target, err := h.svc.ChangeRole(c.Request.Context(), u, id, req.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: target})
}

type UpdateProfileReq struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=120"`
}

// UpdateProfile godoc
//
//	@Summary		Update my profile
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Param			body	body	UpdateProfileReq	true	"Profile fields"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/dashboard/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	req := UpdateProfileReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	out, err := h.svc.UpdateProfile(c.Request.Context(), u, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteUser godoc
//
//	@Summary		Delete an account
//	@Description	Remove an account and revoke its sessions. Admin only; the owner account cannot be deleted.
//	@Tags			user
//	@Produce		json
//	@Param			user_id	path	string	true	"User ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/users/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid user_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
