package handler

import (
	"github.com/gin-gonic/gin"

	"tablehub/backend/internal/service"
	"tablehub/backend/pkg/jwt"
	"tablehub/backend/pkg/response"
)

// MustGetCaller 从 Gin 上下文中提取调用者身份。
// JWT 中间件未注入身份时写入 401 响应并返回 false，调用方应直接 return。
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID := c.GetString("user_id")
	orgID := c.GetString("organization_id")
	role := c.GetString("role")
	if userID == "" || orgID == "" || role == "" {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return service.Caller{}, false
	}
	return service.Caller{UserID: userID, OrganizationID: orgID, Role: role}, true
}

// MustGetClaims 提取当前 Access Token 的声明，登出时使用
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("token_claims")
	if !exists {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return nil, false
	}
	return claims, true
}
