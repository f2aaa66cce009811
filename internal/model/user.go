package model

// 用户角色
const (
	RoleOwner    = "owner"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// IsSupervisorRole 店主与经理可审核打卡、维护排班
func IsSupervisorRole(role string) bool {
	return role == RoleOwner || role == RoleManager
}

// User 用户表 — 对应 users
type User struct {
	UserID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	OrganizationID string  `gorm:"type:uuid;not null"                             json:"organization_id"`
	Name           string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email          string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash   string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role           string  `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"` // owner | manager | employee
	PositionID     *string `gorm:"type:uuid"                                      json:"position_id,omitempty"`
	IsActive       bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID" json:"position,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
