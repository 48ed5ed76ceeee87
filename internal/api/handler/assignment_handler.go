package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/service"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// AssignmentHandler 班级分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ReplaceTeachers 整体替换班级教师集合
// PUT /api/v1/admin/classes/:id/teachers
func (h *AssignmentHandler) ReplaceTeachers(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ReplaceClassTeachersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBinding(c, caller, "参数校验失败")
		return
	}

	res, err := h.assignmentSvc.ReplaceClassTeachers(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, res)
}

// AssignStudents 将学生分配到班级
// POST /api/v1/admin/classes/:id/students
func (h *AssignmentHandler) AssignStudents(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.AssignStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBinding(c, caller, "参数校验失败")
		return
	}

	res, err := h.assignmentSvc.AssignStudents(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, res)
}
