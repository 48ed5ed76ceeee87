package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/model"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
	"github.com/yuktaemrith12/ConnectEd/internal/scheduling"
)

var dayLabels = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
}

// DayLabel 工作日名称
func DayLabel(day int) string {
	if l, ok := dayLabels[day]; ok {
		return l
	}
	return "Unknown"
}

// TimetableService 课表查询业务接口（只读，不加锁）
type TimetableService interface {
	// GetTimetable 班级周课表，周一至周五固定返回，每天按开始时间、节次排序
	GetTimetable(ctx context.Context, caller dto.Caller, classID string) (*dto.TimetableResponse, error)
	// Conflicts 诊断班级课时与任意班级课时之间的教师冲突，每对只报告一次
	Conflicts(ctx context.Context, caller dto.Caller, classID string) (*dto.ConflictsResponse, error)
	ConflictCount(ctx context.Context, caller dto.Caller, classID string) (int, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── GetTimetable ──────────────────────

func (s *timetableService) GetTimetable(ctx context.Context, caller dto.Caller, classID string) (*dto.TimetableResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	classID, err := canonicalID(classID, ErrClassNotFound)
	if err != nil {
		return nil, err
	}
	class, err := s.getClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.TimetableSlot.ListByClass(ctx, classID)
	if err != nil {
		return nil, storeFailure(s.logger, "查询课表失败", err, zap.String("class_id", classID))
	}
	pairs, err := s.conflictPairs(ctx, classID, slots)
	if err != nil {
		return nil, err
	}

	return &dto.TimetableResponse{
		ClassID:       class.ClassID,
		ClassName:     class.Name,
		Days:          groupByDay(slots),
		ConflictCount: len(pairs),
	}, nil
}

// ────────────────────── Conflicts ──────────────────────

func (s *timetableService) Conflicts(ctx context.Context, caller dto.Caller, classID string) (*dto.ConflictsResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	classID, err := canonicalID(classID, ErrClassNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.getClass(ctx, classID); err != nil {
		return nil, err
	}

	slots, err := s.repo.TimetableSlot.ListByClass(ctx, classID)
	if err != nil {
		return nil, storeFailure(s.logger, "查询课表失败", err, zap.String("class_id", classID))
	}
	pairs, err := s.conflictPairs(ctx, classID, slots)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConflictsResponse{
		ClassID:   classID,
		Count:     len(pairs),
		Conflicts: make([]dto.ConflictPair, 0, len(pairs)),
	}
	for _, p := range pairs {
		resp.Conflicts = append(resp.Conflicts, dto.ConflictPair{
			Slot:         toConflictSlot(p.Slot),
			ConflictWith: toConflictSlot(p.ConflictWith),
			OverlapStart: p.Overlap.Start.String(),
			OverlapEnd:   p.Overlap.End.String(),
		})
	}
	return resp, nil
}

// ────────────────────── ConflictCount ──────────────────────

func (s *timetableService) ConflictCount(ctx context.Context, caller dto.Caller, classID string) (int, error) {
	resp, err := s.Conflicts(ctx, caller, classID)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// ── 内部辅助方法 ──

func (s *timetableService) getClass(ctx context.Context, classID string) (*model.Class, error) {
	class, err := s.repo.Class.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, storeFailure(s.logger, "查询班级失败", err, zap.String("class_id", classID))
	}
	return class, nil
}

// conflictPairs 取出班级涉及教师在所有班级的课时，交给冲突检测器
func (s *timetableService) conflictPairs(ctx context.Context, classID string, classSlots []model.TimetableSlot) ([]scheduling.Pair, error) {
	teacherIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range classSlots {
		if !classSlots[i].HasTeacher() {
			continue
		}
		tid := *classSlots[i].TeacherID
		if _, ok := seen[tid]; ok {
			continue
		}
		seen[tid] = struct{}{}
		teacherIDs = append(teacherIDs, tid)
	}
	if len(teacherIDs) == 0 {
		return nil, nil
	}

	teacherSlots, err := s.repo.TimetableSlot.ListByTeachers(ctx, teacherIDs)
	if err != nil {
		return nil, storeFailure(s.logger, "查询教师课时失败", err, zap.String("class_id", classID))
	}
	pairs, invalid := scheduling.ConflictPairs(classID, teacherSlots)
	for _, bad := range invalid {
		s.logger.Warn("课时时间无效，已跳过冲突检测",
			zap.String("class_id", classID),
			zap.String("slot_id", bad.Slot.SlotID),
			zap.Error(bad.Err),
		)
	}
	return pairs, nil
}

// groupByDay 按工作日分组；没有课时的日子返回空列表
func groupByDay(slots []model.TimetableSlot) []dto.DayBlock {
	byDay := make(map[int][]model.TimetableSlot, model.LastWorkday)
	for _, slot := range slots {
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], slot)
	}

	days := make([]dto.DayBlock, 0, model.LastWorkday)
	for day := model.FirstWorkday; day <= model.LastWorkday; day++ {
		daySlots := byDay[day]
		sort.SliceStable(daySlots, func(i, j int) bool {
			a, b := daySlots[i], daySlots[j]
			as, bs := displayClock(a.StartTime), displayClock(b.StartTime)
			if as != bs {
				return as < bs
			}
			return a.PeriodNo < b.PeriodNo
		})

		block := dto.DayBlock{
			DayOfWeek: day,
			DayLabel:  DayLabel(day),
			Slots:     make([]dto.SlotResponse, 0, len(daySlots)),
		}
		for i := range daySlots {
			block.Slots = append(block.Slots, *toSlotResponse(&daySlots[i]))
		}
		days = append(days, block)
	}
	return days
}

func toConflictSlot(slot *model.TimetableSlot) dto.ConflictSlot {
	cs := dto.ConflictSlot{
		ID:        slot.SlotID,
		ClassID:   slot.ClassID,
		DayOfWeek: slot.DayOfWeek,
		StartTime: displayClock(slot.StartTime),
		EndTime:   displayClock(slot.EndTime),
		TeacherID: slot.TeacherID,
	}
	if slot.Class != nil {
		cs.ClassName = slot.Class.Name
	}
	return cs
}
