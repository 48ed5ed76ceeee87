package handler

import "github.com/yuktaemrith12/ConnectEd/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Slot       *SlotHandler
	Timetable  *TimetableHandler
	Assignment *AssignmentHandler
	Roster     *RosterHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Slot:       NewSlotHandler(svc.Slot),
		Timetable:  NewTimetableHandler(svc.Timetable),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Roster:     NewRosterHandler(svc.Roster),
		Export:     NewExportHandler(svc.Export),
	}
}
