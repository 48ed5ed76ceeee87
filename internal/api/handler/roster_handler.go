package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/service"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// RosterHandler 基础名册只读接口
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListSubjects GET /api/v1/admin/subjects
func (h *RosterHandler) ListSubjects(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.rosterSvc.ListSubjects(c.Request.Context(), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListTeachers GET /api/v1/admin/teachers
func (h *RosterHandler) ListTeachers(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.rosterSvc.ListTeachers(c.Request.Context(), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListStudents GET /api/v1/admin/students
func (h *RosterHandler) ListStudents(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.rosterSvc.ListStudents(c.Request.Context(), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListClasses GET /api/v1/admin/classes
func (h *RosterHandler) ListClasses(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.rosterSvc.ListClasses(c.Request.Context(), caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListClassTeachers GET /api/v1/admin/classes/:id/teachers
func (h *RosterHandler) ListClassTeachers(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.rosterSvc.ListClassTeachers(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListClassStudents GET /api/v1/admin/classes/:id/students
func (h *RosterHandler) ListClassStudents(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	list, err := h.rosterSvc.ListClassStudents(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}
