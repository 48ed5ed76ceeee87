package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/service"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// TimetableHandler 课表查询 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// GetTimetable 班级周课表
// GET /api/v1/admin/classes/:id/timetable
func (h *TimetableHandler) GetTimetable(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	tt, err := h.timetableSvc.GetTimetable(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, tt)
}

// GetConflicts 班级教师冲突诊断
// GET /api/v1/admin/classes/:id/timetable/conflicts
func (h *TimetableHandler) GetConflicts(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	res, err := h.timetableSvc.Conflicts(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, res)
}
