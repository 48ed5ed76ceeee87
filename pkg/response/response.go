package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// Kind 为稳定的机器可读错误分类，成功时省略
type Response struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// File 以附件形式返回文件内容，文件名按 RFC 5987 编码
func File(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, body)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// Fail 带错误分类与附加数据的错误响应
func Fail(c *gin.Context, httpStatus int, code int, kind, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Kind:    kind,
		Message: message,
		Data:    data,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Fail(c, http.StatusBadRequest, code, "validation_error", message, nil)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Fail(c, http.StatusUnauthorized, code, "authorization_error", message, nil)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Fail(c, http.StatusForbidden, code, "authorization_error", message, nil)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Fail(c, http.StatusNotFound, code, "not_found", message, nil)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, 50000, "internal", "服务器内部错误", nil)
}
