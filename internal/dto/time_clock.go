package dto

import "time"

// ── 打卡模块 DTO ──

// ClockInRequest 上班打卡请求
type ClockInRequest struct {
	IsSick bool `json:"is_sick"`
}

// ApproveEntriesRequest 审核请求，entryId 与 entryIds 至少提供一个
type ApproveEntriesRequest struct {
	EntryID  string   `json:"entryId"  binding:"omitempty,uuid"`
	EntryIDs []string `json:"entryIds" binding:"omitempty,max=500,dive,uuid"`
}

// IDs 合并 entryId 与 entryIds 并去重，保持出现顺序
func (r *ApproveEntriesRequest) IDs() []string {
	seen := make(map[string]struct{}, len(r.EntryIDs)+1)
	ids := make([]string, 0, len(r.EntryIDs)+1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(r.EntryID)
	for _, id := range r.EntryIDs {
		add(id)
	}
	return ids
}

// RejectEntryRequest 驳回请求
type RejectEntryRequest struct {
	EntryID string `json:"entryId" binding:"required,uuid"`
	Reason  string `json:"reason"  binding:"max=500"`
}

// UpdateEntryRequest 主管修正打卡时间
type UpdateEntryRequest struct {
	EntryID  string     `json:"entryId"   binding:"required,uuid"`
	ClockIn  time.Time  `json:"clock_in"  binding:"required"`
	ClockOut *time.Time `json:"clock_out"`
}

// EntryListRequest 打卡记录查询参数（from/to 作用于 clock_in，RFC3339）
type EntryListRequest struct {
	From   time.Time `form:"from"`
	To     time.Time `form:"to"`
	UserID string    `form:"user_id" binding:"omitempty,uuid"`
	Status string    `form:"status"  binding:"omitempty,oneof=open closed approved rejected"`
	PaginationRequest
}

// ExportRequest 工时表导出参数
type ExportRequest struct {
	From   time.Time `form:"from"    binding:"required"`
	To     time.Time `form:"to"      binding:"required"`
	UserID string    `form:"user_id" binding:"omitempty,uuid"`
}

// ── 响应 ──

// TimeClockEntryResponse 打卡记录
type TimeClockEntryResponse struct {
	ID                       string          `json:"id"`
	OrganizationID           string          `json:"organization_id"`
	UserID                   string          `json:"user_id"`
	ShiftID                  *string         `json:"shift_id"`
	ClockIn                  time.Time       `json:"clock_in"`
	ClockOut                 *time.Time      `json:"clock_out"`
	ShiftStartTime           *time.Time      `json:"shift_start_time"`
	ShiftEndTime             *time.Time      `json:"shift_end_time"`
	ClockInDeviationMinutes  *int            `json:"clock_in_deviation_minutes"`
	ClockOutDeviationMinutes *int            `json:"clock_out_deviation_minutes"`
	HasWarning               bool            `json:"has_warning"`
	Status                   string          `json:"status"`
	IsApproved               bool            `json:"is_approved"`
	ApprovedBy               *string         `json:"approved_by"`
	ApprovedAt               *time.Time      `json:"approved_at"`
	RejectedBy               *string         `json:"rejected_by,omitempty"`
	RejectedAt               *time.Time      `json:"rejected_at,omitempty"`
	RejectReason             string          `json:"reject_reason,omitempty"`
	IsSick                   bool            `json:"is_sick"`
	Breaks                   []BreakResponse `json:"breaks,omitempty"`
}

// BreakResponse 休息记录
type BreakResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	TimeClockEntryID string     `json:"time_clock_entry_id"`
	BreakStart       time.Time  `json:"break_start"`
	BreakEnd         *time.Time `json:"break_end"`
}

// ClockResponse 上/下班打卡结果，warning 为空时输出 null
type ClockResponse struct {
	Entry   TimeClockEntryResponse `json:"entry"`
	Warning *string                `json:"warning"`
}

// BreakEnvelope {break}
type BreakEnvelope struct {
	Break BreakResponse `json:"break"`
}

// EntryEnvelope {entry}
type EntryEnvelope struct {
	Entry TimeClockEntryResponse `json:"entry"`
}

// ClockStatusResponse 当前打卡状态，无进行中记录时字段为 null
type ClockStatusResponse struct {
	Entry *TimeClockEntryResponse `json:"entry"`
	Break *BreakResponse          `json:"break"`
}

// EntryListResponse 打卡记录列表
type EntryListResponse struct {
	Entries []TimeClockEntryResponse `json:"entries"`
	Total   int64                    `json:"total"`
}

// ApproveEntriesResponse 审核结果
type ApproveEntriesResponse struct {
	Entries []TimeClockEntryResponse `json:"entries"`
	Count   int                      `json:"count"`
}
