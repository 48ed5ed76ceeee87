package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// TimetableSlotRepository 课时数据访问接口
type TimetableSlotRepository interface {
	Create(ctx context.Context, slot *model.TimetableSlot) error
	GetByID(ctx context.Context, id string) (*model.TimetableSlot, error)
	Update(ctx context.Context, slot *model.TimetableSlot) error
	// Delete 硬删除；记录不存在时返回 gorm.ErrRecordNotFound
	Delete(ctx context.Context, id string) error
	ListByClass(ctx context.Context, classID string) ([]model.TimetableSlot, error)
	ListByTeacherAndDay(ctx context.Context, teacherID string, dayOfWeek int) ([]model.TimetableSlot, error)
	// ListByTeachers 列出这些教师在所有班级的全部课时
	ListByTeachers(ctx context.Context, teacherIDs []string) ([]model.TimetableSlot, error)
	// LockTeacherDay 获取 (教师, 星期) 的事务级咨询锁，事务结束时自动释放
	LockTeacherDay(ctx context.Context, teacherID string, dayOfWeek int) error
}

type timetableSlotRepo struct {
	db *gorm.DB
}

// NewTimetableSlotRepo 创建 TimetableSlotRepository 实例
func NewTimetableSlotRepo(db *gorm.DB) TimetableSlotRepository {
	return &timetableSlotRepo{db: db}
}

func (r *timetableSlotRepo) Create(ctx context.Context, slot *model.TimetableSlot) error {
	return r.db.WithContext(ctx).Omit("Class", "Subject", "Teacher").Create(slot).Error
}

func (r *timetableSlotRepo) GetByID(ctx context.Context, id string) (*model.TimetableSlot, error) {
	var slot model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Class").Preload("Subject").Preload("Teacher").
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timetableSlotRepo) Update(ctx context.Context, slot *model.TimetableSlot) error {
	return r.db.WithContext(ctx).
		Model(&model.TimetableSlot{}).
		Where("slot_id = ?", slot.SlotID).
		Updates(map[string]interface{}{
			"day_of_week": slot.DayOfWeek,
			"period_no":   slot.PeriodNo,
			"start_time":  slot.StartTime,
			"end_time":    slot.EndTime,
			"subject_id":  slot.SubjectID,
			"teacher_id":  slot.TeacherID,
			"updated_by":  slot.UpdatedBy,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

func (r *timetableSlotRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("slot_id = ?", id).
		Delete(&model.TimetableSlot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timetableSlotRepo) ListByClass(ctx context.Context, classID string) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Subject").Preload("Teacher").
		Where("class_id = ?", classID).
		Order("day_of_week ASC, start_time ASC, period_no ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timetableSlotRepo) ListByTeacherAndDay(ctx context.Context, teacherID string, dayOfWeek int) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("teacher_id = ? AND day_of_week = ?", teacherID, dayOfWeek).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timetableSlotRepo) ListByTeachers(ctx context.Context, teacherIDs []string) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	if len(teacherIDs) == 0 {
		return slots, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Class").Preload("Subject").Preload("Teacher").
		Where("teacher_id IN ?", teacherIDs).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timetableSlotRepo) LockTeacherDay(ctx context.Context, teacherID string, dayOfWeek int) error {
	key := fmt.Sprintf("slot:%s:%d", teacherID, dayOfWeek)
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error
}
