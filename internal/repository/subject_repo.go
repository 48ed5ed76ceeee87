package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// SubjectRepository 科目数据访问接口（只读参考数据）
type SubjectRepository interface {
	List(ctx context.Context) ([]model.Subject, error)
	GetByID(ctx context.Context, id string) (*model.Subject, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) List(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}
