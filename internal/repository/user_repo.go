package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tablehub/backend/internal/model"
	"tablehub/backend/pkg/database"
)

// UserFilter 员工列表筛选条件
type UserFilter struct {
	Role       string
	PositionID string
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, orgID, id string) (*model.User, error)
	// GetByEmail 登录专用，跨租户按邮箱查找
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, orgID string, filter UserFilter, offset, limit int) ([]model.User, int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, orgID, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Position").
		Where("organization_id = ? AND user_id = ?", orgID, id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(database.WithoutTenantScope(ctx)).
		Preload("Position").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, orgID string, filter UserFilter, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{}).
		Where("organization_id = ? AND is_active = ?", orgID, true)
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.PositionID != "" {
		db = db.Where("position_id = ?", filter.PositionID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Position").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}
