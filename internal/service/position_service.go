package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
)

var ErrPositionNameExists = errors.New("岗位名称已存在")

// PositionService 岗位业务接口
type PositionService interface {
	Create(ctx context.Context, caller Caller, req *dto.CreatePositionRequest) (*dto.PositionResponse, error)
	List(ctx context.Context, caller Caller) ([]dto.PositionResponse, error)
}

type positionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPositionService 创建 PositionService 实例
func NewPositionService(repo *repository.Repository, logger *zap.Logger) PositionService {
	return &positionService{repo: repo, logger: logger}
}

func (s *positionService) Create(ctx context.Context, caller Caller, req *dto.CreatePositionRequest) (*dto.PositionResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	position := &model.Position{
		OrganizationID: caller.OrganizationID,
		Name:           req.Name,
		IsActive:       true,
	}
	position.CreatedBy = &caller.UserID

	if err := s.repo.Position.Create(ctx, position); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPositionNameExists
		}
		s.logger.Error("创建岗位失败", zap.Error(err))
		return nil, err
	}
	return &dto.PositionResponse{ID: position.PositionID, Name: position.Name, IsActive: position.IsActive}, nil
}

func (s *positionService) List(ctx context.Context, caller Caller) ([]dto.PositionResponse, error) {
	positions, err := s.repo.Position.List(ctx, caller.OrganizationID)
	if err != nil {
		s.logger.Error("查询岗位失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.PositionResponse, 0, len(positions))
	for _, p := range positions {
		list = append(list, dto.PositionResponse{ID: p.PositionID, Name: p.Name, IsActive: p.IsActive})
	}
	return list, nil
}
