package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/response"
)

// TimeClockHandler 打卡模块 HTTP 处理器
type TimeClockHandler struct {
	clockSvc service.TimeClockService
}

// NewTimeClockHandler 创建 TimeClockHandler
func NewTimeClockHandler(clockSvc service.TimeClockService) *TimeClockHandler {
	return &TimeClockHandler{clockSvc: clockSvc}
}

// ClockIn 上班打卡，请求体可省略
// POST /api/v1/time-clock/clock-in
func (h *TimeClockHandler) ClockIn(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badParams(c)
		return
	}

	result, err := h.clockSvc.ClockIn(c.Request.Context(), caller, &req)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// ClockOut 下班打卡
// POST /api/v1/time-clock/clock-out
func (h *TimeClockHandler) ClockOut(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.clockSvc.ClockOut(c.Request.Context(), caller)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// BreakStart 开始休息
// POST /api/v1/time-clock/break/start
func (h *TimeClockHandler) BreakStart(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.clockSvc.BreakStart(c.Request.Context(), caller)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// BreakEnd 结束休息
// POST /api/v1/time-clock/break/end
func (h *TimeClockHandler) BreakEnd(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.clockSvc.BreakEnd(c.Request.Context(), caller)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// Status 当前打卡状态
// GET /api/v1/time-clock/status
func (h *TimeClockHandler) Status(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.clockSvc.Status(c.Request.Context(), caller)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// ListEntries 打卡记录
// GET /api/v1/time-clock/entries?from=&to=&user_id=&status=&page=&page_size=
func (h *TimeClockHandler) ListEntries(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.EntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c)
		return
	}

	result, err := h.clockSvc.ListEntries(c.Request.Context(), caller, &req)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// Approve 批量审核
// POST /api/v1/time-clock/approve
func (h *TimeClockHandler) Approve(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ApproveEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	result, err := h.clockSvc.Approve(c.Request.Context(), caller, &req)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// Reject 驳回
// POST /api/v1/time-clock/reject
func (h *TimeClockHandler) Reject(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.RejectEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	result, err := h.clockSvc.Reject(c.Request.Context(), caller, &req)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 修正打卡时间
// PUT /api/v1/time-clock/update
func (h *TimeClockHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	result, err := h.clockSvc.Update(c.Request.Context(), caller, &req)
	if err != nil {
		handleTimeClockError(c, err)
		return
	}

	response.OK(c, result)
}

// handleTimeClockError 状态冲突类错误统一返回 400
func handleTimeClockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyClockedIn):
		response.BadRequest(c, 15001, err.Error())
	case errors.Is(err, service.ErrNotClockedIn):
		response.BadRequest(c, 15002, err.Error())
	case errors.Is(err, service.ErrBreakInProgress):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrBreakAlreadyStarted):
		response.BadRequest(c, 15004, err.Error())
	case errors.Is(err, service.ErrNoActiveBreak):
		response.BadRequest(c, 15005, err.Error())
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 15006, err.Error())
	case errors.Is(err, service.ErrEntryImmutable):
		response.BadRequest(c, 15007, err.Error())
	case errors.Is(err, service.ErrEntryNotApprovable):
		response.BadRequest(c, 15008, err.Error())
	case errors.Is(err, service.ErrEntryAlreadyApproved):
		response.BadRequest(c, 15009, err.Error())
	case errors.Is(err, service.ErrInvalidClockRange):
		response.BadRequest(c, 15010, err.Error())
	case errors.Is(err, service.ErrNoEntryIDs):
		response.BadRequest(c, 15011, err.Error())
	case errors.Is(err, service.ErrClockBusy):
		response.BadRequest(c, 15012, err.Error())
	default:
		handleCommonError(c, err)
	}
}
