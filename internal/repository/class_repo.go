package repository

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// ClassRepository 班级数据访问接口
type ClassRepository interface {
	List(ctx context.Context) ([]model.Class, error)
	// ListSummaries 班级列表，附带学生数、教师数与课表中出现的科目
	ListSummaries(ctx context.Context) ([]model.ClassSummary, error)
	GetByID(ctx context.Context, id string) (*model.Class, error)
	// GetForUpdate 在当前事务中锁定班级行（SELECT ... FOR UPDATE）
	GetForUpdate(ctx context.Context, id string) (*model.Class, error)
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) List(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&classes).Error
	return classes, err
}

type classSummaryRow struct {
	ClassID       string
	Name          string
	StudentsCount int
	TeachersCount int
	SubjectNames  pq.StringArray `gorm:"type:text[]"`
}

func (r *classRepo) ListSummaries(ctx context.Context) ([]model.ClassSummary, error) {
	var rows []classSummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.class_id,
		       c.name,
		       (SELECT COUNT(*) FROM students s WHERE s.class_id = c.class_id AND s.is_active) AS students_count,
		       (SELECT COUNT(*) FROM class_teachers ct WHERE ct.class_id = c.class_id)        AS teachers_count,
		       COALESCE((
		           SELECT array_agg(DISTINCT sub.name ORDER BY sub.name)
		           FROM timetable_slots ts
		           JOIN subjects sub ON sub.subject_id = ts.subject_id
		           WHERE ts.class_id = c.class_id
		       ), '{}') AS subject_names
		FROM classes c
		ORDER BY c.name ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]model.ClassSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, model.ClassSummary{
			ClassID:       row.ClassID,
			Name:          row.Name,
			StudentsCount: row.StudentsCount,
			TeachersCount: row.TeachersCount,
			SubjectNames:  []string(row.SubjectNames),
		})
	}
	return summaries, nil
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) GetForUpdate(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}
