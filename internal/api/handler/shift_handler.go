package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CreateShift 排班
// POST /api/v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// ListShifts 班次列表
// GET /api/v1/shifts?from=&to=&user_id=&position_id=&status=
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c)
		return
	}

	result, err := h.shiftSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// GetShift 班次详情
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetShift(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// UpdateShift 调整班次
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// CancelShift 取消班次
// POST /api/v1/shifts/:id/cancel
func (h *ShiftHandler) CancelShift(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Cancel(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// MyCalendar 本人班次的 iCalendar 订阅
// GET /api/v1/shifts/my.ics
func (h *ShiftHandler) MyCalendar(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	body, err := h.shiftSvc.Calendar(c.Request.Context(), caller)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="shifts.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// handleShiftError 班次与模板共用的错误映射
func handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrInvalidShiftRange):
		response.BadRequest(c, 13002, err.Error())
	case errors.Is(err, service.ErrShiftNotEditable):
		response.BadRequest(c, 13003, err.Error())
	case errors.Is(err, service.ErrWorkerNotInOrganization):
		response.BadRequest(c, 13004, err.Error())
	case errors.Is(err, service.ErrPositionNotInOrganization):
		response.BadRequest(c, 13005, err.Error())
	default:
		handleCommonError(c, err)
	}
}
