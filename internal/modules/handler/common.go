package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
	"github.com/arabshield/portal/internal/pkg/i18n"
	"github.com/arabshield/portal/internal/pkg/paging"
	"github.com/arabshield/portal/internal/pkg/utils/secrets"
)

// respondErr maps service errors onto HTTP statuses and the bilingual
// message table. Anything unmapped is a storage-level 500.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr())
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(""))
	case errors.Is(err, service.ErrOwnRoleChange):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(i18n.MsgOwnRoleChange))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, serializer.ErrI18n(http.StatusUnauthorized, i18n.MsgInvalidCredentials, nil))
	case errors.Is(err, service.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, serializer.ErrI18n(http.StatusConflict, i18n.MsgEmailTaken, nil))
	case errors.Is(err, service.ErrRegistrationsClosed):
		c.JSON(http.StatusForbidden, serializer.ErrI18n(http.StatusForbidden, i18n.MsgRegistrationsClosed, nil))
	case errors.Is(err, service.ErrVerificationInvalid):
		c.JSON(http.StatusBadRequest, serializer.ErrI18n(http.StatusBadRequest, i18n.MsgVerificationInvalid, nil))
	case errors.Is(err, service.ErrNotVerified):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(i18n.MsgEmailNotVerified))
	case errors.Is(err, secrets.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, serializer.ErrI18n(http.StatusBadRequest, i18n.MsgWeakPassword, nil))
	case errors.Is(err, service.ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, serializer.ErrI18n(http.StatusForbidden, i18n.MsgProjectQuotaExceeded, nil))
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, serializer.ErrI18n(http.StatusRequestEntityTooLarge, i18n.MsgFileTooLarge, nil))
	case errors.Is(err, service.ErrStatusConflict):
		c.JSON(http.StatusConflict, serializer.ConflictErr())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrUnknownRole),
		errors.Is(err, paging.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
	case errors.Is(err, service.ErrBlobOrphaned):
		// The metadata row is gone; only blob cleanup is still owed.
		c.JSON(http.StatusInternalServerError, serializer.Err(http.StatusInternalServerError,
			"document removed but file cleanup failed", err))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
