package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
)

// ── 用户与组织业务错误 ──

var (
	ErrEmailTaken           = errors.New("邮箱已被使用")
	ErrOrganizationNotFound = errors.New("组织不存在")
	ErrInvalidRole          = errors.New("无效的角色")
	ErrInvalidTimezone      = errors.New("无效的时区")
	ErrPasswordTooWeak      = errors.New("密码长度不能少于 8 位")
)

// CreateUserInput 运维命令行创建员工的参数
type CreateUserInput struct {
	OrganizationID string
	Name           string
	Email          string
	Password       string
	Role           string
	PositionID     *string
}

// UserService 员工业务接口
type UserService interface {
	// List 主管查看本组织员工
	List(ctx context.Context, caller Caller, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// Create 仅供 backofficectl 使用，不对外暴露 HTTP 接口
	Create(ctx context.Context, in *CreateUserInput) (*dto.UserResponse, error)
	// CreateOrganization 仅供 backofficectl 使用
	CreateOrganization(ctx context.Context, name, timezone string) (*model.Organization, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, caller Caller, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if !caller.IsSupervisor() {
		return nil, 0, ErrPermissionDenied
	}
	filter := repository.UserFilter{Role: req.Role, PositionID: req.PositionID}
	users, total, err := s.repo.User.List(ctx, caller.OrganizationID, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

func (s *userService) Create(ctx context.Context, in *CreateUserInput) (*dto.UserResponse, error) {
	switch in.Role {
	case model.RoleOwner, model.RoleManager, model.RoleEmployee:
	default:
		return nil, ErrInvalidRole
	}
	if len(in.Password) < 8 {
		return nil, ErrPasswordTooWeak
	}

	if _, err := s.repo.Organization.GetByID(ctx, in.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	if in.PositionID != nil {
		if _, err := s.repo.Position.GetByID(ctx, in.OrganizationID, *in.PositionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPositionNotInOrganization
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		OrganizationID: in.OrganizationID,
		Name:           in.Name,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:   string(hash),
		Role:           in.Role,
		PositionID:     in.PositionID,
		IsActive:       true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) CreateOrganization(ctx context.Context, name, timezone string) (*model.Organization, error) {
	if _, err := time.LoadLocation(timezone); err != nil || timezone == "" {
		return nil, ErrInvalidTimezone
	}
	org := &model.Organization{Name: name, Timezone: timezone, IsActive: true}
	if err := s.repo.Organization.Create(ctx, org); err != nil {
		s.logger.Error("创建组织失败", zap.Error(err))
		return nil, err
	}
	return org, nil
}
