package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(s service.RatingService) *RatingHandler {
	return &RatingHandler{svc: s}
}

type RateReq struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// RateProject godoc
//
//	@Summary		Rate a project
//	@Description	Record a 1-5 score. Rating the same project again replaces the earlier score.
//	@Tags			rating
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			body		body	RateReq	true	"Rating"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Rating}
//	@Router			/dashboard/projects/{project_id}/ratings [post]
func (h *RatingHandler) RateProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	req := RateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	u, _ := middleware.Principal(c)

	rt, err := h.svc.Rate(c.Request.Context(), u, service.RateInput{
		ProjectID: projectID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: rt})
}

// ListRatings godoc
//
//	@Summary		List project ratings
//	@Tags			rating
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Rating}
//	@Router			/dashboard/projects/{project_id}/ratings [get]
func (h *RatingHandler) ListRatings(c *gin.Context) {
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

// RatingSummary godoc
//
//	@Summary		Rating summary
//	@Description	Average score and count, computed from the stored rows on every call.
//	@Tags			rating
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.RatingSummary}
//	@Router			/dashboard/projects/{project_id}/ratings/summary [get]
func (h *RatingHandler) RatingSummary(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	sum, err := h.svc.Summary(c.Request.Context(), u, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: sum})
}

// DeleteRating godoc
//
//	@Summary		Delete a rating
//	@Description	Only the rating's author or an admin may delete it.
//	@Tags			rating
//	@Produce		json
//	@Param			rating_id	path	string	true	"Rating ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Router			/dashboard/ratings/{rating_id} [delete]
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rating_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid rating_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
