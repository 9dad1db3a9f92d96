package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=4000"`
	Tags        []string `json:"tags" binding:"max=20,dive,max=50"`
}

// CreateProject godoc
//
//	@Summary		Create a project
//	@Description	Create a project owned by the caller. Ownership comes from the session, not the body.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			body	body	CreateProjectReq	true	"Project"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	p, err := h.svc.Create(c.Request.Context(), u, service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type ListProjectsReq struct {
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List the caller's projects. Admins may pass owner_id to inspect another account.
//	@Tags			project
//	@Produce		json
//	@Param			owner_id	query	string	false	"Owner to list (admin only)"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/dashboard/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	ownerID := u.ID
	if req.OwnerID != "" {
		id, err := uuid.Parse(req.OwnerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid owner_id", err))
			return
		}
		ownerID = id
	}

	list, err := h.svc.List(c.Request.Context(), u, ownerID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: list})
}

// GetProject godoc
//
//	@Summary		Get a project
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	p, err := h.svc.Get(c.Request.Context(), u, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type UpdateProjectReq struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=4000"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active on-hold completed"`
	Progress    *int     `json:"progress" binding:"omitempty,min=0,max=100"`
	Tags        []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

// UpdateProject godoc
//
//	@Summary		Update a project
//	@Description	Partially update project fields. The owner cannot be reassigned.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			body		body	UpdateProjectReq	true	"Fields to update"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/projects/{project_id} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	p, err := h.svc.Update(c.Request.Context(), u, id, service.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Progress:    req.Progress,
		Tags:        req.Tags,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// DeleteProject godoc
//
//	@Summary		Delete a project
//	@Description	Delete a project and everything under it.
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
