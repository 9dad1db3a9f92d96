package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{svc: s}
}

type CreateTaskReq struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=4000"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

// CreateTask godoc
//
//	@Summary		Create a task
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string			true	"Project ID"	format(uuid)
//	@Param			body		body	CreateTaskReq	true	"Task"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/projects/{project_id}/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	req := CreateTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	t, err := h.svc.Create(c.Request.Context(), u, service.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// ListTasks godoc
//
//	@Summary		List project tasks
//	@Tags			task
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Task}
//	@Router			/dashboard/projects/{project_id}/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
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

type UpdateTaskReq struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=4000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in-progress completed"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

// UpdateTask godoc
//
//	@Summary		Update a task
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string			true	"Task ID"	format(uuid)
//	@Param			body	body	UpdateTaskReq	true	"Fields to update"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/tasks/{task_id} [patch]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task_id", err))
		return
	}
	req := UpdateTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	t, err := h.svc.Update(c.Request.Context(), u, id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// ToggleTask godoc
//
//	@Summary		Toggle task completion
//	@Description	Flip between completed and the prior status. Concurrent toggles resolve to one transition; the loser gets 409.
//	@Tags			task
//	@Produce		json
//	@Param			task_id	path	string	true	"Task ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Failure		409	{object}	serializer.Response
//	@Router			/dashboard/tasks/{task_id}/toggle [post]
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	t, err := h.svc.ToggleComplete(c.Request.Context(), u, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: t})
}

// DeleteTask godoc
//
//	@Summary		Delete a task
//	@Tags			task
//	@Produce		json
//	@Param			task_id	path	string	true	"Task ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/tasks/{task_id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
