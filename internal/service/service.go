package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/config"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
	"tablehub/backend/pkg/jwt"
	"tablehub/backend/pkg/redis"
)

// ── 通用业务错误 ──

var (
	ErrPermissionDenied = errors.New("无权执行该操作")
)

// Caller 当前请求的调用者身份，由 JWT 中间件解析后传入
type Caller struct {
	UserID         string
	OrganizationID string
	Role           string
}

// IsSupervisor 店主或经理
func (c Caller) IsSupervisor() bool {
	return model.IsSupervisorRole(c.Role)
}

// Locker 分布式互斥锁，返回释放函数
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// TokenBlacklist Token 黑名单
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	Position      PositionService
	Shift         ShiftService
	ShiftTemplate ShiftTemplateService
	TimeClock     TimeClockService
	Export        ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时退化为无锁、无黑名单模式，唯一索引仍保证打卡数据一致
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		locker    Locker
		blacklist TokenBlacklist
	)
	if rdb != nil {
		locker = rdb
		blacklist = rdb
	}

	zones := newZoneResolver(repo, cfg.TimeClock.DefaultTimezone, logger)

	return &Service{
		Auth:          NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:          NewUserService(repo, logger),
		Position:      NewPositionService(repo, logger),
		Shift:         NewShiftService(repo, zones, logger),
		ShiftTemplate: NewShiftTemplateService(repo, zones, logger),
		TimeClock:     NewTimeClockService(cfg, repo, zones, locker, logger),
		Export:        NewExportService(repo, zones, logger),
	}
}

// ── 组织时区 ──

// zoneResolver 解析组织时区，未配置或无效时回落到默认时区
type zoneResolver struct {
	repo     *repository.Repository
	fallback string
	logger   *zap.Logger
	cache    sync.Map // 时区名 → *time.Location
}

func newZoneResolver(repo *repository.Repository, fallback string, logger *zap.Logger) *zoneResolver {
	if fallback == "" {
		fallback = "UTC"
	}
	return &zoneResolver{repo: repo, fallback: fallback, logger: logger}
}

// Location 返回组织所在时区
func (z *zoneResolver) Location(ctx context.Context, orgID string) (*time.Location, error) {
	name := z.fallback
	org, err := z.repo.Organization.GetByID(ctx, orgID)
	switch {
	case err == nil:
		if org.Timezone != "" {
			name = org.Timezone
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 组织缺失时按默认时区处理
	default:
		z.logger.Error("查询组织失败", zap.String("organization_id", orgID), zap.Error(err))
		return nil, err
	}
	return z.load(name), nil
}

func (z *zoneResolver) load(name string) *time.Location {
	if v, ok := z.cache.Load(name); ok {
		return v.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		z.logger.Warn("无效的组织时区，使用默认时区", zap.String("timezone", name), zap.Error(err))
		if name == z.fallback {
			return time.UTC
		}
		return z.load(z.fallback)
	}
	z.cache.Store(name, loc)
	return loc
}
