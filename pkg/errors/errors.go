// Package errors 定义业务错误分类。
//
// 每个对外暴露的错误都带有稳定的机器可读 Kind 与面向用户的 Message，
// Handler 层只依据 Kind 决定 HTTP 状态码。
package errors

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization_error"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal"
)

// Kinded 由携带分类信息的错误实现
type Kinded interface {
	error
	Kind() Kind
}

// Error 通用业务错误
type Error struct {
	kind    Kind
	Message string
	Err     error
}

// New 创建指定分类的业务错误
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, Message: message}
}

// Wrap 包装底层错误并附加分类
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Kind 返回错误分类
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.Err }

// ── 快捷构造 ──

// Validation 输入校验失败
func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// NotFound 引用的资源不存在
func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Unavailable 下游存储不可用，调用方可自行退避重试
func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, "存储服务暂不可用，请稍后重试", err)
}

// Internal 未分类的内部错误
func Internal(err error) *Error {
	return Wrap(KindInternal, "服务器内部错误", err)
}

// KindOf 沿错误链查找第一个分类；未分类错误视为 internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// MessageOf 返回面向用户的错误信息
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Error()
	}
	return "服务器内部错误"
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
