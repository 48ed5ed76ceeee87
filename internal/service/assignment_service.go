package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
	pkgerrors "github.com/yuktaemrith12/ConnectEd/pkg/errors"
)

// AssignmentService 班级分配业务接口
//
// 两个操作都是整体写入：先校验全部 ID 存在，再在同一事务内写入，
// 任一 ID 不存在则整个调用失败，不产生部分分配。
type AssignmentService interface {
	// AssignStudents 将学生分配到班级，覆盖其原所属班级，返回更新的学生数
	AssignStudents(ctx context.Context, caller dto.Caller, classID string, req *dto.AssignStudentsRequest) (*dto.AssignResponse, error)
	// ReplaceClassTeachers 以给定集合整体替换班级的教师关联，返回替换后的关联数
	ReplaceClassTeachers(ctx context.Context, caller dto.Caller, classID string, req *dto.ReplaceClassTeachersRequest) (*dto.AssignResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── AssignStudents ──────────────────────

func (s *assignmentService) AssignStudents(ctx context.Context, caller dto.Caller, classID string, req *dto.AssignStudentsRequest) (*dto.AssignResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	ids, invalid, err := canonicalIDs(req.StudentIDs)
	if err != nil {
		return nil, err
	}
	if len(ids)+len(invalid) == 0 {
		return nil, ErrEmptyStudentList
	}
	if classID, err = canonicalID(classID, ErrClassNotFound); err != nil {
		return nil, err
	}

	var assigned int64
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockClass(ctx, tx, classID); err != nil {
			return err
		}

		students, err := tx.Student.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make(map[string]struct{}, len(students))
		for _, st := range students {
			found[st.StudentID] = struct{}{}
		}
		if missing := missingIDs(ids, invalid, found); len(missing) > 0 {
			return pkgerrors.Wrap(pkgerrors.KindNotFound, "学生不存在: "+strings.Join(missing, ", "), ErrStudentNotFound)
		}

		assigned, err = tx.Student.AssignToClass(ctx, classID, ids)
		return err
	})
	if err != nil {
		return nil, storeFailure(s.logger, "分配学生失败", err, zap.String("class_id", classID))
	}

	s.logger.Info("学生已分配到班级",
		zap.String("class_id", classID),
		zap.Int64("assigned", assigned),
		zap.String("caller", caller.UserID),
	)
	return &dto.AssignResponse{ClassID: classID, Assigned: int(assigned)}, nil
}

// ────────────────────── ReplaceClassTeachers ──────────────────────

func (s *assignmentService) ReplaceClassTeachers(ctx context.Context, caller dto.Caller, classID string, req *dto.ReplaceClassTeachersRequest) (*dto.AssignResponse, error) {
	if err := authorize(caller); err != nil {
		return nil, err
	}
	ids, invalid, err := canonicalIDs(req.TeacherIDs)
	if err != nil {
		return nil, err
	}
	if classID, err = canonicalID(classID, ErrClassNotFound); err != nil {
		return nil, err
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockClass(ctx, tx, classID); err != nil {
			return err
		}

		teachers, err := tx.Teacher.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make(map[string]struct{}, len(teachers))
		for _, t := range teachers {
			found[t.TeacherID] = struct{}{}
		}
		if missing := missingIDs(ids, invalid, found); len(missing) > 0 {
			return pkgerrors.Wrap(pkgerrors.KindNotFound, "教师不存在: "+strings.Join(missing, ", "), ErrTeacherNotFound)
		}

		return tx.ClassTeacher.ReplaceForClass(ctx, classID, ids, caller.UserID)
	})
	if err != nil {
		return nil, storeFailure(s.logger, "替换班级教师失败", err, zap.String("class_id", classID))
	}

	s.logger.Info("班级教师已替换",
		zap.String("class_id", classID),
		zap.Int("count", len(ids)),
		zap.String("caller", caller.UserID),
	)
	return &dto.AssignResponse{ClassID: classID, Assigned: len(ids)}, nil
}

// ── 内部辅助方法 ──

// lockClass 锁定班级行，使同一班级的整体替换串行执行
func lockClass(ctx context.Context, tx *repository.Repository, classID string) error {
	if _, err := tx.Class.GetForUpdate(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	return nil
}

// missingIDs 未找到的 ID 与无法解析的 ID 一并视为不存在
func missingIDs(ids, invalid []string, found map[string]struct{}) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return append(missing, invalid...)
}
