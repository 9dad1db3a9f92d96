package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
	"github.com/arabshield/portal/internal/pkg/i18n"
	"github.com/arabshield/portal/internal/pkg/roles"
)

const (
	ctxPrincipal = "principal"
	ctxSession   = "session"
)

// Principal returns the authenticated user set by SessionAuth.
func Principal(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}

// Session returns the account session set by SessionAuth.
func Session(c *gin.Context) (*model.AccountSession, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*model.AccountSession)
	return s, ok
}

// SessionAuth authenticates requests with session bearer tokens. Every
// failure mode, including a storage error during lookup, is a 401; the
// request never proceeds with a guessed identity.
func SessionAuth(auth service.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "session_auth",
			trace.WithAttributes(attribute.String("middleware", "session_auth")))

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr(""))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		principal, sess, err := auth.ResolveSession(ctx, raw)
		if err != nil {
			if !errors.Is(err, service.ErrSessionExpired) {
				log.Error("session lookup failed", zap.Error(err))
				authSpan.RecordError(err)
			}
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr(""))
			return
		}

		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("user_id", principal.ID.String()))
		}

		authSpan.SetAttributes(
			attribute.String("user_id", principal.ID.String()),
			attribute.String("role", principal.Role),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set(ctxPrincipal, principal)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// RequireVerified blocks accounts that have not confirmed their email.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr(""))
			return
		}
		if !u.Verified {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.ForbiddenErr(i18n.MsgEmailNotVerified))
			return
		}
		c.Next()
	}
}

// RequireAdmin gates the admin route tree. The check runs server-side on the
// stored role; nothing the client sends can widen it.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr(""))
			return
		}
		if !roles.IsAdminRole(u.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.ForbiddenErr(i18n.MsgAdminOnly))
			return
		}
		c.Next()
	}
}

// MaintenanceGate returns 503 to non-admin traffic while maintenance mode is
// on. Admins pass so they can turn it back off.
func MaintenanceGate(settings service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !settings.MaintenanceOn(c.Request.Context()) {
			c.Next()
			return
		}
		if u, ok := Principal(c); ok && roles.IsAdminRole(u.Role) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable,
			serializer.ErrI18n(http.StatusServiceUnavailable, i18n.MsgMaintenance, nil))
	}
}
