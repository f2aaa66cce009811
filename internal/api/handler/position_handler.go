package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/response"
)

// PositionHandler 岗位模块 HTTP 处理器
type PositionHandler struct {
	positionSvc service.PositionService
}

// NewPositionHandler 创建 PositionHandler
func NewPositionHandler(positionSvc service.PositionService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc}
}

// ListPositions 岗位列表
// GET /api/v1/positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.positionSvc.List(c.Request.Context(), caller)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, dto.PositionListResponse{Positions: list})
}

// CreatePosition 创建岗位
// POST /api/v1/positions
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	position, err := h.positionSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		if errors.Is(err, service.ErrPositionNameExists) {
			response.BadRequest(c, 12101, err.Error())
			return
		}
		handleCommonError(c, err)
		return
	}

	response.Created(c, position)
}
