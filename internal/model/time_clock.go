package model

import "time"

// 打卡记录状态
// open → closed → approved | rejected；open 也可直接 rejected
const (
	EntryStatusOpen     = "open"
	EntryStatusClosed   = "closed"
	EntryStatusApproved = "approved"
	EntryStatusRejected = "rejected"
)

// 变更日志动作
const (
	ChangeActionApprove = "approve"
	ChangeActionReject  = "reject"
	ChangeActionUpdate  = "update"
)

// TimeClockEntry 打卡记录表 — 对应 time_clock_entries
// ShiftStartTime/ShiftEndTime 为上班打卡时匹配班次的快照，后续班次调整不影响已有记录
type TimeClockEntry struct {
	EntryID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	OrganizationID           string     `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID                   string     `gorm:"type:uuid;not null"                             json:"user_id"`
	ShiftID                  *string    `gorm:"type:uuid"                                      json:"shift_id"`
	ClockIn                  time.Time  `gorm:"not null"                                       json:"clock_in"`
	ClockOut                 *time.Time `json:"clock_out"`
	ShiftStartTime           *time.Time `json:"shift_start_time"`
	ShiftEndTime             *time.Time `json:"shift_end_time"`
	ClockInDeviationMinutes  *int       `json:"clock_in_deviation_minutes"`
	ClockOutDeviationMinutes *int       `json:"clock_out_deviation_minutes"`
	HasWarning               bool       `gorm:"not null;default:false"                         json:"has_warning"`
	Status                   string     `gorm:"type:varchar(20);not null;default:'open'"       json:"status"` // open | closed | approved | rejected
	IsApproved               bool       `gorm:"not null;default:false"                         json:"is_approved"`
	ApprovedBy               *string    `gorm:"type:uuid"                                      json:"approved_by"`
	ApprovedAt               *time.Time `json:"approved_at"`
	RejectedBy               *string    `gorm:"type:uuid"                                      json:"rejected_by,omitempty"`
	RejectedAt               *time.Time `json:"rejected_at,omitempty"`
	RejectReason             string     `gorm:"type:varchar(500)"                              json:"reject_reason,omitempty"`
	IsSick                   bool       `gorm:"not null;default:false"                         json:"is_sick"`
	Version                  int        `gorm:"not null;default:1"                             json:"version"`
	BaseModel

	// 关联
	User   *User        `gorm:"foreignKey:UserID;references:UserID"        json:"user,omitempty"`
	Breaks []BreakEntry `gorm:"foreignKey:TimeClockEntryID;references:EntryID" json:"breaks,omitempty"`
}

// TableName 指定表名
func (TimeClockEntry) TableName() string { return "time_clock_entries" }

// IsFinal 已审核或已驳回的记录不可再修改
func (e *TimeClockEntry) IsFinal() bool {
	return e.Status == EntryStatusApproved || e.Status == EntryStatusRejected
}

// BreakEntry 休息记录表 — 对应 break_entries
type BreakEntry struct {
	BreakID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"break_id"`
	OrganizationID   string     `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID           string     `gorm:"type:uuid;not null"                             json:"user_id"`
	TimeClockEntryID string     `gorm:"type:uuid;not null"                             json:"time_clock_entry_id"`
	BreakStart       time.Time  `gorm:"not null"                                       json:"break_start"`
	BreakEnd         *time.Time `json:"break_end"`
	CreatedAt        time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (BreakEntry) TableName() string { return "break_entries" }

// Duration 已结束休息的时长；进行中返回 0
func (b *BreakEntry) Duration() time.Duration {
	if b.BreakEnd == nil {
		return 0
	}
	return b.BreakEnd.Sub(b.BreakStart)
}

// TimeClockChangeLog 打卡变更记录表 — 对应 time_clock_change_logs（纯审计日志）
type TimeClockChangeLog struct {
	ChangeLogID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	OrganizationID string     `gorm:"type:uuid;not null"                             json:"organization_id"`
	EntryID        string     `gorm:"type:uuid;not null"                             json:"entry_id"`
	Action         string     `gorm:"type:varchar(20);not null"                      json:"action"` // approve | reject | update
	OldClockIn     *time.Time `json:"old_clock_in,omitempty"`
	OldClockOut    *time.Time `json:"old_clock_out,omitempty"`
	NewClockIn     *time.Time `json:"new_clock_in,omitempty"`
	NewClockOut    *time.Time `json:"new_clock_out,omitempty"`
	Reason         string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	OperatorID     string     `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (TimeClockChangeLog) TableName() string { return "time_clock_change_logs" }
