package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Subject       SubjectRepository
	Teacher       TeacherRepository
	Class         ClassRepository
	Student       StudentRepository
	ClassTeacher  ClassTeacherRepository
	TimetableSlot TimetableSlotRepository

	// Tx 在同一数据库事务中执行多个 Repository 操作
	Tx Transactor
}

// Transactor 事务执行器
// fn 返回非 nil 错误时整个事务回滚
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Subject:       NewSubjectRepo(db),
		Teacher:       NewTeacherRepo(db),
		Class:         NewClassRepo(db),
		Student:       NewStudentRepo(db),
		ClassTeacher:  NewClassTeacherRepo(db),
		TimetableSlot: NewTimetableSlotRepo(db),
		Tx:            &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
