package repository

import (
	"context"

	"gorm.io/gorm"

	"tablehub/backend/internal/model"
)

// PositionRepository 岗位数据访问接口
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	GetByID(ctx context.Context, orgID, id string) (*model.Position, error)
	List(ctx context.Context, orgID string) ([]model.Position, error)
}

type positionRepo struct {
	db *gorm.DB
}

// NewPositionRepo 创建 PositionRepository 实例
func NewPositionRepo(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) Create(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *positionRepo) GetByID(ctx context.Context, orgID, id string) (*model.Position, error) {
	var position model.Position
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND position_id = ?", orgID, id).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) List(ctx context.Context, orgID string) ([]model.Position, error) {
	var positions []model.Position
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_active = ?", orgID, true).
		Order("name ASC").
		Find(&positions).Error
	return positions, err
}
