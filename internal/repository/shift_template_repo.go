package repository

import (
	"context"

	"gorm.io/gorm"

	"tablehub/backend/internal/model"
)

// ShiftTemplateRepository 班次模板数据访问接口
type ShiftTemplateRepository interface {
	Create(ctx context.Context, tpl *model.ShiftTemplate) error
	GetByID(ctx context.Context, orgID, id string) (*model.ShiftTemplate, error)
	List(ctx context.Context, orgID string) ([]model.ShiftTemplate, error)
	Delete(ctx context.Context, orgID, id, deletedBy string) error
}

type shiftTemplateRepo struct {
	db *gorm.DB
}

// NewShiftTemplateRepo 创建 ShiftTemplateRepository 实例
func NewShiftTemplateRepo(db *gorm.DB) ShiftTemplateRepository {
	return &shiftTemplateRepo{db: db}
}

func (r *shiftTemplateRepo) Create(ctx context.Context, tpl *model.ShiftTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *shiftTemplateRepo) GetByID(ctx context.Context, orgID, id string) (*model.ShiftTemplate, error) {
	var tpl model.ShiftTemplate
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND template_id = ?", orgID, id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *shiftTemplateRepo) List(ctx context.Context, orgID string) ([]model.ShiftTemplate, error) {
	var tpls []model.ShiftTemplate
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&tpls).Error
	return tpls, err
}

// Delete 软删除：先记录 deleted_by 再写 deleted_at
func (r *shiftTemplateRepo) Delete(ctx context.Context, orgID, id, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ShiftTemplate{}).
			Where("organization_id = ? AND template_id = ?", orgID, id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("organization_id = ? AND template_id = ?", orgID, id).
			Delete(&model.ShiftTemplate{}).Error
	})
}
