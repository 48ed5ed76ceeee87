package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// ClassTeacherRepository 班级-教师关联数据访问接口
type ClassTeacherRepository interface {
	ListByClass(ctx context.Context, classID string) ([]model.ClassTeacher, error)
	// ReplaceForClass 全量替换班级的教师集合：先删除旧关联，再批量插入
	// 需在调用方事务中执行
	ReplaceForClass(ctx context.Context, classID string, teacherIDs []string, createdBy string) error
	CountByClass(ctx context.Context, classID string) (int64, error)
}

type classTeacherRepo struct {
	db *gorm.DB
}

// NewClassTeacherRepo 创建 ClassTeacherRepository 实例
func NewClassTeacherRepo(db *gorm.DB) ClassTeacherRepository {
	return &classTeacherRepo{db: db}
}

func (r *classTeacherRepo) ListByClass(ctx context.Context, classID string) ([]model.ClassTeacher, error) {
	var links []model.ClassTeacher
	err := r.db.WithContext(ctx).
		Preload("Teacher").Preload("Teacher.Subject").
		Where("class_id = ?", classID).
		Find(&links).Error
	return links, err
}

func (r *classTeacherRepo) ReplaceForClass(ctx context.Context, classID string, teacherIDs []string, createdBy string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("class_id = ?", classID).Delete(&model.ClassTeacher{}).Error; err != nil {
		return err
	}
	if len(teacherIDs) == 0 {
		return nil
	}

	links := make([]model.ClassTeacher, 0, len(teacherIDs))
	for _, tid := range teacherIDs {
		link := model.ClassTeacher{ClassID: classID, TeacherID: tid}
		if createdBy != "" {
			link.CreatedBy = &createdBy
		}
		links = append(links, link)
	}
	return db.Create(&links).Error
}

func (r *classTeacherRepo) CountByClass(ctx context.Context, classID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClassTeacher{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	return count, err
}
