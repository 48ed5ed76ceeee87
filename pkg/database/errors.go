package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE
const (
	codeInvalidTextRepr     = "22P02"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeExclusionViolation  = "23P01"
	codeSerialization       = "40001"
	codeDeadlockDetected    = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsExclusionViolation 排他约束冲突（教师时段重叠的最后一道防线）
func IsExclusionViolation(err error) bool {
	return pgCode(err) == codeExclusionViolation
}

// IsForeignKeyViolation 外键约束冲突（引用的实体已被删除）
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsInvalidTextRepresentation 参数无法转换为列类型（如非法的 uuid 文本）
func IsInvalidTextRepresentation(err error) bool {
	return pgCode(err) == codeInvalidTextRepr
}

// IsUniqueViolation 唯一约束冲突
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsUnavailable 判断错误是否由存储不可达 / 超时引起
// 这类错误允许调用方自行退避重试，服务端不做自动重试
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	switch pgCode(err) {
	case codeSerialization, codeDeadlockDetected:
		return true
	}
	return pgconn.SafeToRetry(err)
}
