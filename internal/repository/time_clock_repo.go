package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tablehub/backend/internal/model"
	pkgerrors "tablehub/backend/pkg/errors"
)

// EntryFilter 打卡记录筛选条件，零值字段不参与过滤
type EntryFilter struct {
	From   time.Time
	To     time.Time
	UserID string
	Status string
}

func (f EntryFilter) apply(db *gorm.DB) *gorm.DB {
	if !f.From.IsZero() {
		db = db.Where("clock_in >= ?", f.From)
	}
	if !f.To.IsZero() {
		db = db.Where("clock_in < ?", f.To)
	}
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// TimeClockEntryRepository 打卡记录数据访问接口
type TimeClockEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeClockEntry) error
	GetByID(ctx context.Context, orgID, id string) (*model.TimeClockEntry, error)
	// GetOpenByUser 员工当前未下班的记录，不存在返回 gorm.ErrRecordNotFound
	GetOpenByUser(ctx context.Context, orgID, userID string) (*model.TimeClockEntry, error)
	ListByIDs(ctx context.Context, orgID string, ids []string) ([]model.TimeClockEntry, error)
	List(ctx context.Context, orgID string, filter EntryFilter, offset, limit int) ([]model.TimeClockEntry, int64, error)
	// ListForExport 导出用，预加载员工与休息记录，按员工、上班时间排序
	ListForExport(ctx context.Context, orgID string, filter EntryFilter) ([]model.TimeClockEntry, error)
	Update(ctx context.Context, entry *model.TimeClockEntry) error
	// Approve 批量审核，仅作用于已下班（closed）的记录，返回实际更新行数
	Approve(ctx context.Context, orgID string, ids []string, approverID string, at time.Time) (int64, error)
}

type timeClockEntryRepo struct {
	db *gorm.DB
}

// NewTimeClockEntryRepo 创建 TimeClockEntryRepository 实例
func NewTimeClockEntryRepo(db *gorm.DB) TimeClockEntryRepository {
	return &timeClockEntryRepo{db: db}
}

func (r *timeClockEntryRepo) Create(ctx context.Context, entry *model.TimeClockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timeClockEntryRepo) GetByID(ctx context.Context, orgID, id string) (*model.TimeClockEntry, error) {
	var entry model.TimeClockEntry
	err := r.db.WithContext(ctx).
		Preload("Breaks", func(db *gorm.DB) *gorm.DB { return db.Order("break_start ASC") }).
		Where("organization_id = ? AND entry_id = ?", orgID, id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeClockEntryRepo) GetOpenByUser(ctx context.Context, orgID, userID string) (*model.TimeClockEntry, error) {
	var entry model.TimeClockEntry
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ? AND status = ?", orgID, userID, model.EntryStatusOpen).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeClockEntryRepo) ListByIDs(ctx context.Context, orgID string, ids []string) ([]model.TimeClockEntry, error) {
	var entries []model.TimeClockEntry
	if len(ids) == 0 {
		return entries, nil
	}
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND entry_id IN ?", orgID, ids).
		Order("clock_in ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timeClockEntryRepo) List(ctx context.Context, orgID string, filter EntryFilter, offset, limit int) ([]model.TimeClockEntry, int64, error) {
	var entries []model.TimeClockEntry
	var total int64

	db := filter.apply(r.db.WithContext(ctx).Model(&model.TimeClockEntry{}).
		Where("organization_id = ?", orgID))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Breaks", func(db *gorm.DB) *gorm.DB { return db.Order("break_start ASC") }).
		Order("clock_in DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *timeClockEntryRepo) ListForExport(ctx context.Context, orgID string, filter EntryFilter) ([]model.TimeClockEntry, error) {
	var entries []model.TimeClockEntry
	err := filter.apply(r.db.WithContext(ctx).Where("organization_id = ?", orgID)).
		Preload("User").
		Preload("Breaks", func(db *gorm.DB) *gorm.DB { return db.Order("break_start ASC") }).
		Order("user_id ASC, clock_in ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timeClockEntryRepo) Update(ctx context.Context, entry *model.TimeClockEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.TimeClockEntry{}).
		Where("organization_id = ? AND entry_id = ? AND version = ?", entry.OrganizationID, entry.EntryID, oldVersion).
		Updates(map[string]interface{}{
			"clock_in":                    entry.ClockIn,
			"clock_out":                   entry.ClockOut,
			"clock_in_deviation_minutes":  entry.ClockInDeviationMinutes,
			"clock_out_deviation_minutes": entry.ClockOutDeviationMinutes,
			"has_warning":                 entry.HasWarning,
			"status":                      entry.Status,
			"rejected_by":                 entry.RejectedBy,
			"rejected_at":                 entry.RejectedAt,
			"reject_reason":               entry.RejectReason,
			"updated_by":                  entry.UpdatedBy,
			"version":                     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *timeClockEntryRepo) Approve(ctx context.Context, orgID string, ids []string, approverID string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.TimeClockEntry{}).
		Where("organization_id = ? AND entry_id IN ? AND status = ?", orgID, ids, model.EntryStatusClosed).
		Updates(map[string]interface{}{
			"status":      model.EntryStatusApproved,
			"is_approved": true,
			"approved_by": approverID,
			"approved_at": at,
			"updated_by":  approverID,
			"version":     gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// ── BreakEntry ──

// BreakEntryRepository 休息记录数据访问接口
type BreakEntryRepository interface {
	Create(ctx context.Context, b *model.BreakEntry) error
	// GetOpenByEntry 打卡记录下进行中的休息，不存在返回 gorm.ErrRecordNotFound
	GetOpenByEntry(ctx context.Context, orgID, entryID string) (*model.BreakEntry, error)
	// Close 写入休息结束时间，仅作用于仍在进行中的休息
	Close(ctx context.Context, b *model.BreakEntry, end time.Time) error
}

type breakEntryRepo struct {
	db *gorm.DB
}

// NewBreakEntryRepo 创建 BreakEntryRepository 实例
func NewBreakEntryRepo(db *gorm.DB) BreakEntryRepository {
	return &breakEntryRepo{db: db}
}

func (r *breakEntryRepo) Create(ctx context.Context, b *model.BreakEntry) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *breakEntryRepo) GetOpenByEntry(ctx context.Context, orgID, entryID string) (*model.BreakEntry, error) {
	var b model.BreakEntry
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND time_clock_entry_id = ? AND break_end IS NULL", orgID, entryID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *breakEntryRepo) Close(ctx context.Context, b *model.BreakEntry, end time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.BreakEntry{}).
		Where("organization_id = ? AND break_id = ? AND break_end IS NULL", b.OrganizationID, b.BreakID).
		Update("break_end", end)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	b.BreakEnd = &end
	return nil
}

// ── TimeClockChangeLog ──

// TimeClockChangeLogRepository 打卡变更日志数据访问接口（仅追加）
type TimeClockChangeLogRepository interface {
	Create(ctx context.Context, log *model.TimeClockChangeLog) error
	BatchCreate(ctx context.Context, logs []model.TimeClockChangeLog) error
	ListByEntry(ctx context.Context, orgID, entryID string) ([]model.TimeClockChangeLog, error)
}

type timeClockChangeLogRepo struct {
	db *gorm.DB
}

// NewTimeClockChangeLogRepo 创建 TimeClockChangeLogRepository 实例
func NewTimeClockChangeLogRepo(db *gorm.DB) TimeClockChangeLogRepository {
	return &timeClockChangeLogRepo{db: db}
}

func (r *timeClockChangeLogRepo) Create(ctx context.Context, log *model.TimeClockChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *timeClockChangeLogRepo) BatchCreate(ctx context.Context, logs []model.TimeClockChangeLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *timeClockChangeLogRepo) ListByEntry(ctx context.Context, orgID, entryID string) ([]model.TimeClockChangeLog, error) {
	var logs []model.TimeClockChangeLog
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND entry_id = ?", orgID, entryID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
