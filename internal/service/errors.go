package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/model"
	"github.com/yuktaemrith12/ConnectEd/internal/scheduling"
	"github.com/yuktaemrith12/ConnectEd/pkg/database"
	pkgerrors "github.com/yuktaemrith12/ConnectEd/pkg/errors"
)

// ── 业务错误 ──

var (
	ErrAdminOnly = pkgerrors.New(pkgerrors.KindAuthorization, "仅管理员可执行该操作")

	ErrSlotNotFound    = pkgerrors.New(pkgerrors.KindNotFound, "课时不存在")
	ErrClassNotFound   = pkgerrors.New(pkgerrors.KindNotFound, "班级不存在")
	ErrSubjectNotFound = pkgerrors.New(pkgerrors.KindNotFound, "科目不存在")
	ErrTeacherNotFound = pkgerrors.New(pkgerrors.KindNotFound, "教师不存在")
	ErrStudentNotFound = pkgerrors.New(pkgerrors.KindNotFound, "学生不存在")

	ErrEmptyStudentList = pkgerrors.New(pkgerrors.KindValidation, "学生列表不能为空")
	ErrSubjectMismatch  = pkgerrors.New(pkgerrors.KindValidation, "课时科目与教师所属科目不一致")
)

// ConflictError 教师时段冲突
// Slot 为已存在的冲突课时；由数据库排他约束兜底拦截时 Slot 可能为空
type ConflictError struct {
	Slot    *model.TimetableSlot
	Overlap scheduling.Window
}

func (e *ConflictError) Error() string {
	if e.Slot == nil {
		return "教师在该时段已有课程"
	}
	className := e.Slot.ClassID
	if e.Slot.Class != nil {
		className = e.Slot.Class.Name
	}
	return fmt.Sprintf("教师在该时段已有课程：班级 %s %s %s",
		className, DayLabel(e.Slot.DayOfWeek), e.Overlap.String())
}

// Kind 实现 pkgerrors.Kinded
func (e *ConflictError) Kind() pkgerrors.Kind { return pkgerrors.KindConflict }

// Detail 冲突详情，供 Handler 作为 409 响应数据
func (e *ConflictError) Detail() *dto.ConflictDetail {
	if e.Slot == nil {
		return &dto.ConflictDetail{}
	}
	cs := toConflictSlot(e.Slot)
	return &dto.ConflictDetail{
		ConflictWith: &cs,
		OverlapStart: e.Overlap.Start.String(),
		OverlapEnd:   e.Overlap.End.String(),
	}
}

// authorize 所有课表操作仅限管理员，先于任何参数校验执行
func authorize(caller dto.Caller) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// classifyStoreError 将存储层错误归类；已分类的业务错误原样返回
func classifyStoreError(err error) error {
	var kinded pkgerrors.Kinded
	if errors.As(err, &kinded) {
		return err
	}
	switch {
	case database.IsExclusionViolation(err):
		return &ConflictError{}
	case database.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.KindNotFound, "引用的数据不存在", err)
	case database.IsInvalidTextRepresentation(err):
		return pkgerrors.Wrap(pkgerrors.KindNotFound, "ID 格式无效，数据不存在", err)
	case database.IsUnavailable(err):
		return pkgerrors.Unavailable(err)
	default:
		return pkgerrors.Internal(err)
	}
}

// storeFailure 归类错误；存储不可用和内部错误记 Error 日志
func storeFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) error {
	classified := classifyStoreError(err)
	switch pkgerrors.KindOf(classified) {
	case pkgerrors.KindUnavailable, pkgerrors.KindInternal:
		logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return classified
}
