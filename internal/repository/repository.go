package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
// 进程内只构造一次，由 Service 层注入使用；所有业务查询都显式携带组织 ID
type Repository struct {
	db *gorm.DB

	Organization       OrganizationRepository
	User               UserRepository
	Position           PositionRepository
	Shift              ShiftRepository
	ShiftTemplate      ShiftTemplateRepository
	TimeClockEntry     TimeClockEntryRepository
	BreakEntry         BreakEntryRepository
	TimeClockChangeLog TimeClockChangeLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                 db,
		Organization:       NewOrganizationRepo(db),
		User:               NewUserRepo(db),
		Position:           NewPositionRepo(db),
		Shift:              NewShiftRepo(db),
		ShiftTemplate:      NewShiftTemplateRepo(db),
		TimeClockEntry:     NewTimeClockEntryRepo(db),
		BreakEntry:         NewBreakEntryRepo(db),
		TimeClockChangeLog: NewTimeClockChangeLogRepo(db),
	}
}

// Transaction 在同一数据库事务内执行 fn，fn 返回错误时回滚
// 未绑定数据库连接的聚合（如单元测试中手工装配的 mock）直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
