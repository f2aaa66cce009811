package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tablehub/backend/internal/model"
	pkgerrors "tablehub/backend/pkg/errors"
)

// ShiftFilter 班次列表筛选条件，零值字段不参与过滤
type ShiftFilter struct {
	From       time.Time
	To         time.Time
	UserID     string
	PositionID string
	Status     string
	// VisibleTo 非空时仅返回该员工本人的班次与空班
	VisibleTo string
}

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	Create(ctx context.Context, shift *model.Shift) error
	BatchCreate(ctx context.Context, shifts []model.Shift) error
	GetByID(ctx context.Context, orgID, id string) (*model.Shift, error)
	List(ctx context.Context, orgID string, filter ShiftFilter, offset, limit int) ([]model.Shift, int64, error)
	// ListByUserBetween 员工在 [from, to) 内开始的班次，按开始时间升序
	ListByUserBetween(ctx context.Context, orgID, userID string, from, to time.Time) ([]model.Shift, error)
	// ListByTemplateBetween 模板在 [from, to) 内生成的未取消班次
	ListByTemplateBetween(ctx context.Context, orgID, templateID string, from, to time.Time) ([]model.Shift, error)
	Update(ctx context.Context, shift *model.Shift) error
	// MarkCompleted 将计划中/已确认的班次置为已完成，其余状态不变
	MarkCompleted(ctx context.Context, orgID, id, operatorID string) error
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) Create(ctx context.Context, shift *model.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepo) BatchCreate(ctx context.Context, shifts []model.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&shifts).Error
}

func (r *shiftRepo) GetByID(ctx context.Context, orgID, id string) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Position").
		Where("organization_id = ? AND shift_id = ?", orgID, id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) List(ctx context.Context, orgID string, filter ShiftFilter, offset, limit int) ([]model.Shift, int64, error) {
	var shifts []model.Shift
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Shift{}).
		Where("organization_id = ?", orgID)
	if !filter.From.IsZero() {
		db = db.Where("start_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		db = db.Where("start_time < ?", filter.To)
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.PositionID != "" {
		db = db.Where("position_id = ?", filter.PositionID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.VisibleTo != "" {
		db = db.Where("(user_id = ? OR user_id IS NULL)", filter.VisibleTo)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").Preload("Position").
		Order("start_time ASC").
		Offset(offset).Limit(limit).
		Find(&shifts).Error
	return shifts, total, err
}

func (r *shiftRepo) ListByUserBetween(ctx context.Context, orgID, userID string, from, to time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ? AND start_time >= ? AND start_time < ?", orgID, userID, from, to).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) ListByTemplateBetween(ctx context.Context, orgID, templateID string, from, to time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND template_id = ? AND start_time >= ? AND start_time < ? AND status <> ?",
			orgID, templateID, from, to, model.ShiftStatusCancelled).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) Update(ctx context.Context, shift *model.Shift) error {
	oldVersion := shift.Version
	result := r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("organization_id = ? AND shift_id = ? AND version = ?", shift.OrganizationID, shift.ShiftID, oldVersion).
		Updates(map[string]interface{}{
			"user_id":       shift.UserID,
			"position_id":   shift.PositionID,
			"start_time":    shift.StartTime,
			"end_time":      shift.EndTime,
			"break_minutes": shift.BreakMinutes,
			"status":        shift.Status,
			"notes":         shift.Notes,
			"updated_by":    shift.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version = oldVersion + 1
	return nil
}

func (r *shiftRepo) MarkCompleted(ctx context.Context, orgID, id, operatorID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Shift{}).
		Where("organization_id = ? AND shift_id = ? AND status IN ?", orgID, id,
			[]string{model.ShiftStatusScheduled, model.ShiftStatusConfirmed}).
		Updates(map[string]interface{}{
			"status":     model.ShiftStatusCompleted,
			"updated_by": operatorID,
			"version":    gorm.Expr("version + 1"),
		}).Error
}
