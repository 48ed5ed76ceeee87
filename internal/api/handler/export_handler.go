package handler

import (
	"bytes"
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/service"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 课表导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出班级课表，默认 xlsx
// GET /api/v1/admin/classes/:id/timetable/export?format=xlsx|ics
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		rejectBinding(c, caller, "format 仅支持 xlsx 或 ics")
		return
	}

	var (
		gen         func(ctx context.Context, caller dto.Caller, classID string) (*bytes.Buffer, string, error)
		contentType string
	)
	switch req.Format {
	case "ics":
		gen, contentType = h.exportSvc.TimetableICS, contentTypeICS
	default:
		gen, contentType = h.exportSvc.TimetableXLSX, contentTypeXLSX
	}

	buf, filename, err := gen(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.File(c, contentType, filename, buf.Bytes())
}
