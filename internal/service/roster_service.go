package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/model"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
)

// RosterService 花名册只读查询（科目、教师、学生、班级）
type RosterService interface {
	ListSubjects(ctx context.Context, caller dto.Caller) ([]dto.SubjectResponse, error)
	ListTeachers(ctx context.Context, caller dto.Caller) ([]dto.TeacherResponse, error)
	ListStudents(ctx context.Context, caller dto.Caller) ([]dto.StudentResponse, error)
	ListClasses(ctx context.Context, caller dto.Caller) ([]dto.ClassResponse, error)
	ListClassTeachers(ctx context.Context, caller dto.Caller, classID string) ([]dto.TeacherResponse, error)
	ListClassStudents(ctx context.Context, caller dto.Caller, classID string) ([]dto.StudentResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

func (s *rosterService) ListSubjects(ctx context.Context, caller dto.Caller) ([]dto.SubjectResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "列出科目失败", err)
	}
	result := make([]dto.SubjectResponse, 0, len(subjects))
	for _, sub := range subjects {
		result = append(result, dto.SubjectResponse{ID: sub.SubjectID, Name: sub.Name})
	}
	return result, nil
}

func (s *rosterService) ListTeachers(ctx context.Context, caller dto.Caller) ([]dto.TeacherResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "列出教师失败", err)
	}
	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, toTeacherResponse(&teachers[i]))
	}
	return result, nil
}

func (s *rosterService) ListStudents(ctx context.Context, caller dto.Caller) ([]dto.StudentResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "列出学生失败", err)
	}
	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, toStudentResponse(&students[i]))
	}
	return result, nil
}

func (s *rosterService) ListClasses(ctx context.Context, caller dto.Caller) ([]dto.ClassResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	summaries, err := s.repo.Class.ListSummaries(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "列出班级失败", err)
	}
	result := make([]dto.ClassResponse, 0, len(summaries))
	for _, sum := range summaries {
		subjects := sum.SubjectNames
		if subjects == nil {
			subjects = []string{}
		}
		result = append(result, dto.ClassResponse{
			ID:            sum.ClassID,
			Name:          sum.Name,
			StudentsCount: sum.StudentsCount,
			TeachersCount: sum.TeachersCount,
			Subjects:      subjects,
		})
	}
	return result, nil
}

func (s *rosterService) ListClassTeachers(ctx context.Context, caller dto.Caller, classID string) ([]dto.TeacherResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	classID, err := s.resolveClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.ClassTeacher.ListByClass(ctx, classID)
	if err != nil {
		return nil, storeFailure(s.logger, "列出班级教师失败", err, zap.String("class_id", classID))
	}
	result := make([]dto.TeacherResponse, 0, len(links))
	for _, link := range links {
		if link.Teacher == nil {
			result = append(result, dto.TeacherResponse{ID: link.TeacherID})
			continue
		}
		result = append(result, toTeacherResponse(link.Teacher))
	}
	return result, nil
}

func (s *rosterService) ListClassStudents(ctx context.Context, caller dto.Caller, classID string) ([]dto.StudentResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	classID, err := s.resolveClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.Student.ListByClass(ctx, classID)
	if err != nil {
		return nil, storeFailure(s.logger, "列出班级学生失败", err, zap.String("class_id", classID))
	}
	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, toStudentResponse(&students[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

// resolveClass 规范化班级 ID 并确认班级存在
func (s *rosterService) resolveClass(ctx context.Context, classID string) (string, error) {
	classID, err := canonicalID(classID, ErrClassNotFound)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.Class.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrClassNotFound
		}
		return "", storeFailure(s.logger, "查询班级失败", err, zap.String("class_id", classID))
	}
	return classID, nil
}

func toTeacherResponse(t *model.Teacher) dto.TeacherResponse {
	resp := dto.TeacherResponse{
		ID:        t.TeacherID,
		FullName:  t.FullName,
		Email:     t.Email,
		SubjectID: t.SubjectID,
	}
	if t.Subject != nil {
		resp.SubjectName = t.Subject.Name
	}
	return resp
}

func toStudentResponse(st *model.Student) dto.StudentResponse {
	resp := dto.StudentResponse{
		ID:       st.StudentID,
		FullName: st.FullName,
		Email:    st.Email,
		ClassID:  st.ClassID,
	}
	if st.Class != nil {
		name := st.Class.Name
		resp.ClassName = &name
	}
	return resp
}
