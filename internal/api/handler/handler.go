package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/service"
	pkgerrors "tablehub/backend/pkg/errors"
	"tablehub/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	Position      *PositionHandler
	Shift         *ShiftHandler
	ShiftTemplate *ShiftTemplateHandler
	TimeClock     *TimeClockHandler
	Export        *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		User:          NewUserHandler(svc.User),
		Position:      NewPositionHandler(svc.Position),
		Shift:         NewShiftHandler(svc.Shift),
		ShiftTemplate: NewShiftTemplateHandler(svc.ShiftTemplate),
		TimeClock:     NewTimeClockHandler(svc.TimeClock),
		Export:        NewExportHandler(svc.Export),
	}
}

// ── 通用错误码 ──

const (
	codeInvalidParams = 10001
	codeUnauthorized  = 10002
	codeForbidden     = 10003
	codeStaleVersion  = 10006
)

func badParams(c *gin.Context) {
	response.BadRequest(c, codeInvalidParams, "参数校验失败")
}

// handleCommonError 处理各模块共用的错误，其余一律按 500 返回
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, codeForbidden, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.BadRequest(c, codeStaleVersion, "数据已被修改，请刷新后重试")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
