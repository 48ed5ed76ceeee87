package service

import (
	"go.uber.org/zap"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Slot       SlotService
	Assignment AssignmentService
	Timetable  TimetableService
	Roster     RosterService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		Slot:       NewSlotService(&cfg.Timetable, repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Timetable:  NewTimetableService(repo, logger),
		Roster:     NewRosterService(repo, logger),
		Export:     NewExportService(&cfg.Timetable, repo, logger),
	}
}
