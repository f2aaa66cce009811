package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/response"
)

// ShiftTemplateHandler 班次模板模块 HTTP 处理器
type ShiftTemplateHandler struct {
	templateSvc service.ShiftTemplateService
}

// NewShiftTemplateHandler 创建 ShiftTemplateHandler
func NewShiftTemplateHandler(templateSvc service.ShiftTemplateService) *ShiftTemplateHandler {
	return &ShiftTemplateHandler{templateSvc: templateSvc}
}

// CreateTemplate 创建模板
// POST /api/v1/shift-templates
func (h *ShiftTemplateHandler) CreateTemplate(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateShiftTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	tpl, err := h.templateSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleTemplateError(c, err)
		return
	}

	response.Created(c, tpl)
}

// ListTemplates 模板列表
// GET /api/v1/shift-templates
func (h *ShiftTemplateHandler) ListTemplates(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.templateSvc.List(c.Request.Context(), caller)
	if err != nil {
		handleTemplateError(c, err)
		return
	}

	response.OK(c, dto.ShiftTemplateListResponse{Templates: list})
}

// DeleteTemplate 删除模板（已生成的班次保留）
// DELETE /api/v1/shift-templates/:id
func (h *ShiftTemplateHandler) DeleteTemplate(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.templateSvc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		handleTemplateError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ApplyTemplate 按模板生成一周班次
// POST /api/v1/shift-templates/:id/apply
func (h *ShiftTemplateHandler) ApplyTemplate(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ApplyShiftTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c)
		return
	}

	result, err := h.templateSvc.Apply(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		handleTemplateError(c, err)
		return
	}

	response.Created(c, result)
}

func handleTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrTemplateInactive):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrInvalidWeekStart):
		response.BadRequest(c, 14003, err.Error())
	default:
		handleShiftError(c, err)
	}
}
