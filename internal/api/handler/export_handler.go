package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimesheet 导出工时表
// GET /api/v1/time-clock/export?from=&to=&user_id=
func (h *ExportHandler) ExportTimesheet(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "from 与 to 为必填的 RFC3339 时间")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimesheet(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportInvalidRange):
		response.BadRequest(c, 16001, err.Error())
	case errors.Is(err, service.ErrExportNoEntries):
		response.NotFound(c, 16002, err.Error())
	default:
		handleCommonError(c, err)
	}
}
