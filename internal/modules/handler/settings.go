package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type SettingsHandler struct {
	svc service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: s}
}

// GetSettings godoc
//
//	@Summary		System settings
//	@Description	The instance-wide settings singleton. Admin only.
//	@Tags			settings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.SystemSettings}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	u, _ := middleware.Principal(c)

	s, err := h.svc.Get(c.Request.Context(), u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: s})
}

type UpdateSettingsReq struct {
	SiteName                  *string `json:"site_name" binding:"omitempty,min=1,max=120"`
	MaintenanceMode           *bool   `json:"maintenance_mode"`
	AllowNewRegistrations     *bool   `json:"allow_new_registrations"`
	DefaultUserRole           *string `json:"default_user_role" binding:"omitempty,rolename"`
	MaxProjectsPerUser        *int    `json:"max_projects_per_user" binding:"omitempty,min=0,max=1000"`
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled"`
}

// UpdateSettings godoc
//
//	@Summary		Update system settings
//	@Description	Partially update the settings singleton. Turning on maintenance mode locks out non-admin traffic immediately.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body	UpdateSettingsReq	true	"Fields to update"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.SystemSettings}
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/admin/settings [patch]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	req := UpdateSettingsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	s, err := h.svc.Update(c.Request.Context(), u, service.UpdateSettingsInput{
		SiteName:                  req.SiteName,
		MaintenanceMode:           req.MaintenanceMode,
		AllowNewRegistrations:     req.AllowNewRegistrations,
		DefaultUserRole:           req.DefaultUserRole,
		MaxProjectsPerUser:        req.MaxProjectsPerUser,
		EmailNotificationsEnabled: req.EmailNotificationsEnabled,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: s})
}
