package dto

// ── 班次模板 DTO ──

// CreateShiftTemplateRequest 创建班次模板请求
// EndTime 不晚于 StartTime 时视为跨夜班
type CreateShiftTemplateRequest struct {
	Name       string  `json:"name"         binding:"required,min=1,max=100"`
	PositionID string  `json:"position_id"  binding:"required,uuid"`
	UserID     *string `json:"user_id"      binding:"omitempty,uuid"`
	StartTime  string  `json:"start_time"   binding:"required,hhmm"`
	EndTime    string  `json:"end_time"     binding:"required,hhmm"`
	DaysOfWeek []int   `json:"days_of_week" binding:"required,min=1,max=7,dive,min=1,max=7"`
}

// ApplyShiftTemplateRequest 按模板生成某一周的班次
type ApplyShiftTemplateRequest struct {
	WeekStart string `json:"week_start" binding:"required,datetime=2006-01-02"`
}

// ── 响应 ──

// ShiftTemplateResponse 班次模板响应
type ShiftTemplateResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PositionID string  `json:"position_id"`
	UserID     *string `json:"user_id,omitempty"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	DaysOfWeek []int   `json:"days_of_week"`
	IsActive   bool    `json:"is_active"`
}

// ApplyShiftTemplateResponse 模板展开结果
type ApplyShiftTemplateResponse struct {
	Created []ShiftResponse `json:"created"`
	Skipped int             `json:"skipped"` // 当天已有同模板班次而跳过的天数
}

// ShiftTemplateListResponse 班次模板列表
type ShiftTemplateListResponse struct {
	Templates []ShiftTemplateResponse `json:"templates"`
}
