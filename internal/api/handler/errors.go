package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/service"
	pkgerrors "github.com/yuktaemrith12/ConnectEd/pkg/errors"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// 业务错误码
const (
	codeValidation    = 10001
	codeForbidden     = 10003
	codeSlotNotFound  = 20001
	codeClassNotFound = 20002
	codeSubject       = 20003
	codeTeacher       = 20004
	codeStudent       = 20005
	codeNotFound      = 20000
	codeConflict      = 30001
	codeUnavailable   = 50300
)

// handleError 按错误分类映射 HTTP 状态码，不泄露存储层细节
func handleError(c *gin.Context, err error) {
	kind := pkgerrors.KindOf(err)
	msg := pkgerrors.MessageOf(err)

	switch kind {
	case pkgerrors.KindValidation:
		response.BadRequest(c, codeValidation, msg)
	case pkgerrors.KindAuthorization:
		response.Forbidden(c, codeForbidden, msg)
	case pkgerrors.KindNotFound:
		response.NotFound(c, notFoundCode(err), msg)
	case pkgerrors.KindConflict:
		var data interface{}
		var ce *service.ConflictError
		if errors.As(err, &ce) {
			data = ce.Detail()
		}
		response.Fail(c, http.StatusConflict, codeConflict, string(kind), msg, data)
	case pkgerrors.KindUnavailable:
		c.Header("Retry-After", "1")
		response.Fail(c, http.StatusServiceUnavailable, codeUnavailable, string(kind), msg, nil)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

func notFoundCode(err error) int {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		return codeSlotNotFound
	case errors.Is(err, service.ErrClassNotFound):
		return codeClassNotFound
	case errors.Is(err, service.ErrSubjectNotFound):
		return codeSubject
	case errors.Is(err, service.ErrTeacherNotFound):
		return codeTeacher
	case errors.Is(err, service.ErrStudentNotFound):
		return codeStudent
	default:
		return codeNotFound
	}
}
