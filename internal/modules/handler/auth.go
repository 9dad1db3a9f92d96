package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type RegisterReq struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=120"`
	Password    string `json:"password" binding:"required,min=8"`
}

// Register godoc
//
//	@Summary		Register a new account
//	@Description	Create an account and send a verification email. Fails while registrations are closed.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body	RegisterReq	true	"Registration"
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Failure		403	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req := RegisterReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: u})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Exchange credentials for a session bearer token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body	LoginReq	true	"Credentials"
//	@Success		200	{object}	serializer.Response{data=service.LoginOutput}
//	@Failure		401	{object}	serializer.Response
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// Logout godoc
//
//	@Summary		Sign out
//	@Description	Revoke the current session token.
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := middleware.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}
	if err := h.svc.Logout(c.Request.Context(), sess.ID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

type VerifyReq struct {
	Token string `json:"token" binding:"required"`
}

// Verify godoc
//
//	@Summary		Verify email
//	@Description	Redeem a verification token. Tokens are single-use and expire.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body	VerifyReq	true	"Verification token"
//	@Success		200	{object}	serializer.Response
//	@Failure		400	{object}	serializer.Response
//	@Router			/auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	req := VerifyReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if err := h.svc.Verify(c.Request.Context(), req.Token); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// ResendVerification godoc
//
//	@Summary		Resend verification email
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/auth/verify/resend [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	u, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}
	if err := h.svc.ResendVerification(c.Request.Context(), u.ID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// Me godoc
//
//	@Summary		Current account
//	@Description	Return the authenticated principal with its resolved role.
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: u})
}
