package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	List(ctx context.Context) ([]model.Student, error)
	ListByClass(ctx context.Context, classID string) ([]model.Student, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Student, error)
	// AssignToClass 将学生的所属班级覆盖为 classID，返回受影响行数
	AssignToClass(ctx context.Context, classID string, studentIDs []string) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByClass(ctx context.Context, classID string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND is_active = ?", classID, true).
		Order("full_name ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Student, error) {
	var students []model.Student
	if len(ids) == 0 {
		return students, nil
	}
	err := r.db.WithContext(ctx).
		Where("student_id IN ?", ids).
		Find(&students).Error
	return students, err
}

func (r *studentRepo) AssignToClass(ctx context.Context, classID string, studentIDs []string) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id IN ?", studentIDs).
		Updates(map[string]interface{}{
			"class_id":   classID,
			"updated_at": gorm.Expr("NOW()"),
		})
	return result.RowsAffected, result.Error
}
