package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/model"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
	"github.com/yuktaemrith12/ConnectEd/internal/scheduling"
	pkgerrors "github.com/yuktaemrith12/ConnectEd/pkg/errors"
)

// SlotService 课时业务接口
//
// 写操作在单个数据库事务内完成：
//   - 校验班级 / 科目 / 教师存在
//   - 获取受影响 (教师, 星期) 的咨询锁
//   - 冲突检测并写入
//
// 同一教师同一天的并发写入因此被串行化，检测与提交对其他写入者是原子的。
type SlotService interface {
	Create(ctx context.Context, caller dto.Caller, req *dto.CreateSlotRequest) (*dto.SlotResponse, error)
	GetByID(ctx context.Context, caller dto.Caller, id string) (*dto.SlotResponse, error)
	ListByClass(ctx context.Context, caller dto.Caller, classID string) ([]dto.SlotResponse, error)
	Update(ctx context.Context, caller dto.Caller, id string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	Delete(ctx context.Context, caller dto.Caller, id string) error
}

type slotService struct {
	cfg    *config.TimetableConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(cfg *config.TimetableConfig, repo *repository.Repository, logger *zap.Logger) SlotService {
	return &slotService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *slotService) Create(ctx context.Context, caller dto.Caller, req *dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	if err := validateDayAndPeriod(req.DayOfWeek, req.PeriodNo); err != nil {
		return nil, err
	}
	w, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ClassID) == "" {
		return nil, pkgerrors.Validation("class_id 不能为空")
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		return nil, pkgerrors.Validation("subject_id 不能为空")
	}
	classID, err := canonicalID(req.ClassID, ErrClassNotFound)
	if err != nil {
		return nil, err
	}
	subjectID, err := canonicalID(req.SubjectID, ErrSubjectNotFound)
	if err != nil {
		return nil, err
	}
	teacherID, err := canonicalTeacherID(req.TeacherID)
	if err != nil {
		return nil, err
	}

	slot := &model.TimetableSlot{
		ClassID:   classID,
		DayOfWeek: req.DayOfWeek,
		PeriodNo:  req.PeriodNo,
		StartTime: w.Start.String(),
		EndTime:   w.End.String(),
		SubjectID: subjectID,
		TeacherID: teacherID,
	}
	slot.CreatedBy = &caller.UserID
	slot.UpdatedBy = &caller.UserID

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := s.checkReferences(ctx, tx, slot); err != nil {
			return err
		}
		if err := s.lockAndCheck(ctx, tx, slot, w, nil); err != nil {
			return err
		}
		return tx.TimetableSlot.Create(ctx, slot)
	})
	if err != nil {
		return nil, s.writeFailure("创建课时失败", err, zap.String("class_id", classID))
	}

	s.logger.Info("课时已创建",
		zap.String("slot_id", slot.SlotID),
		zap.String("class_id", slot.ClassID),
		zap.String("caller", caller.UserID),
	)
	return toSlotResponse(slot), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *slotService) GetByID(ctx context.Context, caller dto.Caller, id string) (*dto.SlotResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	id, err := canonicalID(id, ErrSlotNotFound)
	if err != nil {
		return nil, err
	}
	slot, err := s.repo.TimetableSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, storeFailure(s.logger, "查询课时失败", err, zap.String("id", id))
	}
	return toSlotResponse(slot), nil
}

// ────────────────────── ListByClass ──────────────────────

func (s *slotService) ListByClass(ctx context.Context, caller dto.Caller, classID string) ([]dto.SlotResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	classID, err := canonicalID(classID, ErrClassNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Class.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, storeFailure(s.logger, "查询班级失败", err, zap.String("class_id", classID))
	}

	slots, err := s.repo.TimetableSlot.ListByClass(ctx, classID)
	if err != nil {
		return nil, storeFailure(s.logger, "列出课时失败", err, zap.String("class_id", classID))
	}

	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toSlotResponse(&slots[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *slotService) Update(ctx context.Context, caller dto.Caller, id string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	if err := validatePatch(req); err != nil {
		return nil, err
	}
	id, err := canonicalID(id, ErrSlotNotFound)
	if err != nil {
		return nil, err
	}

	var updated *model.TimetableSlot
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.TimetableSlot.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		next, w, err := applyPatch(current, req)
		if err != nil {
			return err
		}
		next.UpdatedBy = &caller.UserID

		if err := s.checkReferences(ctx, tx, next); err != nil {
			return err
		}
		var prevKey *scheduling.Key
		if k, ok := scheduling.KeyOf(current); ok {
			prevKey = &k
		}
		if err := s.lockAndCheck(ctx, tx, next, w, prevKey); err != nil {
			return err
		}
		if err := tx.TimetableSlot.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, s.writeFailure("更新课时失败", err, zap.String("id", id))
	}

	s.logger.Info("课时已更新", zap.String("slot_id", id), zap.String("caller", caller.UserID))
	return toSlotResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *slotService) Delete(ctx context.Context, caller dto.Caller, id string) error {
	if err := authorize(caller); err != nil {
		return err
	}
	id, err := canonicalID(id, ErrSlotNotFound)
	if err != nil {
		return err
	}
	if err := s.repo.TimetableSlot.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		return storeFailure(s.logger, "删除课时失败", err, zap.String("id", id))
	}
	s.logger.Info("课时已删除", zap.String("slot_id", id), zap.String("caller", caller.UserID))
	return nil
}

// ── 内部辅助方法 ──

// checkReferences 校验班级、科目、教师存在，并挂载关联用于响应
func (s *slotService) checkReferences(ctx context.Context, tx *repository.Repository, slot *model.TimetableSlot) error {
	class, err := tx.Class.GetByID(ctx, slot.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	slot.Class = class

	subject, err := tx.Subject.GetByID(ctx, slot.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	slot.Subject = subject

	slot.Teacher = nil
	if !slot.HasTeacher() {
		return nil
	}
	teacher, err := tx.Teacher.GetByID(ctx, *slot.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	if s.cfg.EnforceTeacherSubject && teacher.SubjectID != slot.SubjectID {
		return ErrSubjectMismatch
	}
	slot.Teacher = teacher
	return nil
}

// lockAndCheck 锁定受影响的 (教师, 星期) 后做冲突检测
// 更新时若教师或星期改变，旧键与新键按固定顺序一起加锁，避免死锁
func (s *slotService) lockAndCheck(ctx context.Context, tx *repository.Repository, slot *model.TimetableSlot, w scheduling.Window, prevKey *scheduling.Key) error {
	var keys []scheduling.Key
	key, staffed := scheduling.KeyOf(slot)
	if staffed {
		keys = append(keys, key)
	}
	if prevKey != nil && (!staffed || *prevKey != key) {
		keys = append(keys, *prevKey)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TeacherID != keys[j].TeacherID {
			return keys[i].TeacherID < keys[j].TeacherID
		}
		return keys[i].DayOfWeek < keys[j].DayOfWeek
	})
	for _, k := range keys {
		if err := tx.TimetableSlot.LockTeacherDay(ctx, k.TeacherID, k.DayOfWeek); err != nil {
			return err
		}
	}

	if !staffed {
		return nil
	}
	existing, err := tx.TimetableSlot.ListByTeacherAndDay(ctx, key.TeacherID, key.DayOfWeek)
	if err != nil {
		return err
	}
	hit, err := scheduling.FindConflict(scheduling.Candidate{
		DayOfWeek:     slot.DayOfWeek,
		Window:        w,
		TeacherID:     key.TeacherID,
		ExcludeSlotID: slot.SlotID,
	}, existing)
	if err != nil {
		return err
	}
	if hit != nil {
		hw, _ := scheduling.SlotWindow(hit)
		return &ConflictError{Slot: hit, Overlap: w.Intersection(hw)}
	}
	return nil
}

// writeFailure 写操作错误出口：冲突记 Info，存储故障记 Error
func (s *slotService) writeFailure(msg string, err error, fields ...zap.Field) error {
	classified := storeFailure(s.logger, msg, err, fields...)
	var conflict *ConflictError
	if errors.As(classified, &conflict) {
		if conflict.Slot != nil {
			fields = append(fields, zap.String("conflict_with", conflict.Slot.SlotID))
		}
		s.logger.Info("课时写入因教师冲突被拒绝", fields...)
	}
	return classified
}

func validateDayAndPeriod(day, period int) error {
	if day < model.FirstWorkday || day > model.LastWorkday {
		return pkgerrors.Validation("day_of_week 必须在 %d-%d 之间", model.FirstWorkday, model.LastWorkday)
	}
	if period < 1 {
		return pkgerrors.Validation("period_no 必须大于等于 1")
	}
	return nil
}

func parseWindow(start, end string) (scheduling.Window, error) {
	s, err := scheduling.ParseClock(start)
	if err != nil {
		return scheduling.Window{}, pkgerrors.Validation("start_time 格式应为 HH:MM")
	}
	e, err := scheduling.ParseClock(end)
	if err != nil {
		return scheduling.Window{}, pkgerrors.Validation("end_time 格式应为 HH:MM")
	}
	w, err := scheduling.NewWindow(s, e)
	if err != nil {
		return scheduling.Window{}, pkgerrors.Validation("start_time 必须早于 end_time")
	}
	return w, nil
}

// validatePatch 校验补丁中出现的字段；起止时间先后关系在合并后校验
func validatePatch(req *dto.UpdateSlotRequest) error {
	if req.DayOfWeek != nil && (*req.DayOfWeek < model.FirstWorkday || *req.DayOfWeek > model.LastWorkday) {
		return pkgerrors.Validation("day_of_week 必须在 %d-%d 之间", model.FirstWorkday, model.LastWorkday)
	}
	if req.PeriodNo != nil && *req.PeriodNo < 1 {
		return pkgerrors.Validation("period_no 必须大于等于 1")
	}
	if req.StartTime != nil {
		if _, err := scheduling.ParseClock(*req.StartTime); err != nil {
			return pkgerrors.Validation("start_time 格式应为 HH:MM")
		}
	}
	if req.EndTime != nil {
		if _, err := scheduling.ParseClock(*req.EndTime); err != nil {
			return pkgerrors.Validation("end_time 格式应为 HH:MM")
		}
	}
	if req.SubjectID != nil && strings.TrimSpace(*req.SubjectID) == "" {
		return pkgerrors.Validation("subject_id 不能为空")
	}
	return nil
}

// applyPatch 在当前课时副本上合并补丁，返回合并后的课时及其时间窗口
func applyPatch(current *model.TimetableSlot, req *dto.UpdateSlotRequest) (*model.TimetableSlot, scheduling.Window, error) {
	next := *current
	next.Class, next.Subject, next.Teacher = nil, nil, nil

	start, err := patchedClock(current.StartTime, req.StartTime)
	if err != nil {
		return nil, scheduling.Window{}, pkgerrors.Validation("当前课时开始时间无效，需在补丁中提供 start_time")
	}
	end, err := patchedClock(current.EndTime, req.EndTime)
	if err != nil {
		return nil, scheduling.Window{}, pkgerrors.Validation("当前课时结束时间无效，需在补丁中提供 end_time")
	}
	w, err := scheduling.NewWindow(start, end)
	if err != nil {
		return nil, scheduling.Window{}, pkgerrors.Validation("start_time 必须早于 end_time")
	}
	next.StartTime = w.Start.String()
	next.EndTime = w.End.String()

	if req.DayOfWeek != nil {
		next.DayOfWeek = *req.DayOfWeek
	}
	if req.PeriodNo != nil {
		next.PeriodNo = *req.PeriodNo
	}
	if req.SubjectID != nil {
		if next.SubjectID, err = canonicalID(*req.SubjectID, ErrSubjectNotFound); err != nil {
			return nil, scheduling.Window{}, err
		}
	}
	if req.TeacherID != nil {
		if next.TeacherID, err = canonicalTeacherID(req.TeacherID); err != nil {
			return nil, scheduling.Window{}, err
		}
	}
	return &next, w, nil
}

// patchedClock 补丁提供了时间则使用补丁值（已在 validatePatch 校验），否则解析已存储的值
func patchedClock(stored string, patch *string) (scheduling.Clock, error) {
	if patch != nil {
		return scheduling.ParseClock(*patch)
	}
	return scheduling.ClockOf(stored)
}

// canonicalTeacherID 空白视为未安排教师
func canonicalTeacherID(id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	v, err := canonicalID(*id, ErrTeacherNotFound)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func toSlotResponse(slot *model.TimetableSlot) *dto.SlotResponse {
	resp := &dto.SlotResponse{
		ID:        slot.SlotID,
		ClassID:   slot.ClassID,
		DayOfWeek: slot.DayOfWeek,
		PeriodNo:  slot.PeriodNo,
		StartTime: displayClock(slot.StartTime),
		EndTime:   displayClock(slot.EndTime),
		SubjectID: slot.SubjectID,
		TeacherID: slot.TeacherID,
	}
	if slot.Subject != nil {
		resp.SubjectName = slot.Subject.Name
	}
	if slot.Teacher != nil {
		name := slot.Teacher.FullName
		resp.TeacherName = &name
	}
	return resp
}

// displayClock 存储层可能返回 HH:MM:SS，对外统一为 HH:MM
func displayClock(v string) string {
	c, err := scheduling.ClockOf(v)
	if err != nil {
		return v
	}
	return c.String()
}
