package dto

// CreatePositionRequest 创建岗位请求
type CreatePositionRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// PositionResponse 岗位信息
type PositionResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// PositionListResponse 岗位列表
type PositionListResponse struct {
	Positions []PositionResponse `json:"positions"`
}
