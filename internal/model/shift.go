package model

import "time"

// 班次状态
const (
	ShiftStatusScheduled = "scheduled"
	ShiftStatusConfirmed = "confirmed"
	ShiftStatusCompleted = "completed"
	ShiftStatusCancelled = "cancelled"
)

// Shift 班次表 — 对应 shifts
// UserID 为空表示尚未分配员工的空班
type Shift struct {
	ShiftID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	OrganizationID string    `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID         *string   `gorm:"type:uuid"                                      json:"user_id"`
	PositionID     string    `gorm:"type:uuid;not null"                             json:"position_id"`
	StartTime      time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime        time.Time `gorm:"not null"                                       json:"end_time"`
	BreakMinutes   int       `gorm:"type:smallint;not null;default:0"               json:"break_minutes"`
	Status         string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | confirmed | completed | cancelled
	Notes          string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	TemplateID     *string   `gorm:"type:uuid"                                      json:"template_id,omitempty"`
	VersionedModel

	// 关联
	User     *User     `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID" json:"position,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// IsMatchable 仅计划中或已确认的班次参与打卡对账
func (s *Shift) IsMatchable() bool {
	return s.Status == ShiftStatusScheduled || s.Status == ShiftStatusConfirmed
}

// IsEditable 已完成或已取消的班次不可再修改
func (s *Shift) IsEditable() bool {
	return s.Status != ShiftStatusCompleted && s.Status != ShiftStatusCancelled
}

// ShiftTemplate 班次模板表 — 对应 shift_templates
// StartTime/EndTime 为组织时区下的 "HH:MM"，DaysOfWeek 取 1=周一 … 7=周日
type ShiftTemplate struct {
	TemplateID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	OrganizationID string   `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string   `gorm:"type:varchar(100);not null"                     json:"name"`
	PositionID     string   `gorm:"type:uuid;not null"                             json:"position_id"`
	UserID         *string  `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	StartTime      string   `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime        string   `gorm:"type:varchar(5);not null"                       json:"end_time"`
	DaysOfWeek     IntArray `gorm:"type:int[];not null"                            json:"days_of_week"`
	IsActive       bool     `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (ShiftTemplate) TableName() string { return "shift_templates" }
