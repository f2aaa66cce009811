package model

// Organization 组织（租户）表 — 对应 organizations
// Timezone 决定打卡对账中的“自然日”与病假记录的下班时刻
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string `gorm:"type:varchar(200);not null"                     json:"name"`
	Timezone       string `gorm:"type:varchar(64);not null;default:'Europe/Berlin'" json:"timezone"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }
