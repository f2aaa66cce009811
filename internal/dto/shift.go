package dto

import "time"

// ── 班次模块 DTO ──

// ShiftRequest 创建 / 调整班次请求
// UserID 为空表示空班；BreakMinutes 为空时按法定休息时长推算
type ShiftRequest struct {
	UserID       *string   `json:"user_id"       binding:"omitempty,uuid"`
	PositionID   string    `json:"position_id"   binding:"required,uuid"`
	StartTime    time.Time `json:"start_time"    binding:"required"`
	EndTime      time.Time `json:"end_time"      binding:"required"`
	BreakMinutes *int      `json:"break_minutes" binding:"omitempty,min=0,max=480"`
	Status       string    `json:"status"        binding:"omitempty,oneof=scheduled confirmed"`
	Notes        string    `json:"notes"         binding:"max=500"`
}

// ShiftListRequest 班次列表查询参数（from/to 作用于 start_time，RFC3339）
type ShiftListRequest struct {
	From       time.Time `form:"from"`
	To         time.Time `form:"to"`
	UserID     string    `form:"user_id"     binding:"omitempty,uuid"`
	PositionID string    `form:"position_id" binding:"omitempty,uuid"`
	Status     string    `form:"status"      binding:"omitempty,oneof=scheduled confirmed completed cancelled"`
	PaginationRequest
}

// ── 响应 ──

// ShiftResponse 班次响应
type ShiftResponse struct {
	ID           string    `json:"id"`
	UserID       *string   `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	PositionID   string    `json:"position_id"`
	PositionName string    `json:"position_name,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	BreakMinutes int       `json:"break_minutes"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	TemplateID   *string   `json:"template_id,omitempty"`
	Version      int       `json:"version"`
}

// ShiftListResponse 班次列表
type ShiftListResponse struct {
	Shifts []ShiftResponse `json:"shifts"`
	Total  int64           `json:"total"`
}
