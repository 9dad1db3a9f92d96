package serializer

import (
	"fmt"
	"net/http"

	"github.com/arabshield/portal/internal/pkg/i18n"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger installs the package logger. Called once from router setup.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response is the envelope every endpoint returns.
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	MsgAr string      `json:"msg_ar,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Err builds an error response. In non-release mode the underlying error
// detail is included for debugging.
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// ErrI18n builds an error response from a bilingual message code: Arabic in
// msg_ar, English in msg.
func ErrI18n(errCode int, code string, err error) Response {
	entry := i18n.Lookup(code)
	res := Err(errCode, entry.English, err)
	res.MsgAr = entry.Arabic
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	log.Error("database error", zap.Error(err))
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(code string) Response {
	if code == "" {
		code = i18n.MsgSessionExpired
	}
	return ErrI18n(http.StatusUnauthorized, code, nil)
}

// ForbiddenErr
func ForbiddenErr(code string) Response {
	if code == "" {
		code = i18n.MsgNotAuthorized
	}
	return ErrI18n(http.StatusForbidden, code, nil)
}

// NotFoundErr
func NotFoundErr() Response {
	return ErrI18n(http.StatusNotFound, i18n.MsgNotFound, nil)
}

// ConflictErr
func ConflictErr() Response {
	return ErrI18n(http.StatusConflict, i18n.MsgConcurrentModified, nil)
}
