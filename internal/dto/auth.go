package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ── 响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           string            `json:"role"`
	Position       *PositionResponse `json:"position,omitempty"`
	IsActive       bool              `json:"is_active"`
}

// UserListRequest 员工列表查询参数
type UserListRequest struct {
	Role       string `form:"role"        binding:"omitempty,oneof=owner manager employee"`
	PositionID string `form:"position_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// LogoutRequest 登出请求，refresh_token 可选，提供时一并吊销
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserListResponse 员工列表
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}
