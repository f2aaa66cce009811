package handler

import (
	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/response"
)

// UserHandler 员工模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 员工列表（主管）
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badParams(c)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, dto.UserListResponse{Users: users, Total: total})
}
