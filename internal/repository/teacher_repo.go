package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	List(ctx context.Context) ([]model.Teacher, error)
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
	// ListByIDs 按 ID 批量查询，结果中缺失的 ID 即为不存在的教师
	ListByIDs(ctx context.Context, ids []string) ([]model.Teacher, error)
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) List(ctx context.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&teachers).Error
	return teachers, err
}

func (r *teacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("teacher_id = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Teacher, error) {
	var teachers []model.Teacher
	if len(ids) == 0 {
		return teachers, nil
	}
	err := r.db.WithContext(ctx).
		Where("teacher_id IN ?", ids).
		Find(&teachers).Error
	return teachers, err
}
