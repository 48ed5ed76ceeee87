package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/service"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// SlotHandler 课时模块 HTTP 处理器
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// CreateSlot 创建课时
// POST /api/v1/admin/slots
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBinding(c, caller, "参数校验失败")
		return
	}

	slot, err := h.slotSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, slot)
}

// GetSlot 获取课时详情
// GET /api/v1/admin/slots/:id
func (h *SlotHandler) GetSlot(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	slot, err := h.slotSvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, slot)
}

// ListClassSlots 获取班级全部课时
// GET /api/v1/admin/classes/:id/slots
func (h *SlotHandler) ListClassSlots(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	slots, err := h.slotSvc.ListByClass(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// UpdateSlot 部分更新课时
// PUT /api/v1/admin/slots/:id
func (h *SlotHandler) UpdateSlot(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rejectBinding(c, caller, "参数校验失败")
		return
	}

	slot, err := h.slotSvc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, slot)
}

// DeleteSlot 删除课时
// DELETE /api/v1/admin/slots/:id
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.slotSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}
