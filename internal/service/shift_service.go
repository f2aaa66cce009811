package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
	pkgerrors "tablehub/backend/pkg/errors"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound             = errors.New("班次不存在")
	ErrInvalidShiftRange         = errors.New("班次结束时间必须晚于开始时间")
	ErrShiftNotEditable          = errors.New("已完成或已取消的班次不可修改")
	ErrWorkerNotInOrganization   = errors.New("员工不属于当前组织")
	ErrPositionNotInOrganization = errors.New("岗位不属于当前组织")
)

// 日历订阅覆盖的时间范围
const (
	calendarLookBack  = 14 * 24 * time.Hour
	calendarLookAhead = 60 * 24 * time.Hour
)

// ShiftService 班次业务接口
type ShiftService interface {
	Create(ctx context.Context, caller Caller, req *dto.ShiftRequest) (*dto.ShiftResponse, error)
	Get(ctx context.Context, caller Caller, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, caller Caller, req *dto.ShiftListRequest) (*dto.ShiftListResponse, error)
	// Update 调整班次（改期、换人、换岗）
	Update(ctx context.Context, caller Caller, id string, req *dto.ShiftRequest) (*dto.ShiftResponse, error)
	Cancel(ctx context.Context, caller Caller, id string) (*dto.ShiftResponse, error)
	// Calendar 当前员工近期班次的 iCalendar 订阅
	Calendar(ctx context.Context, caller Caller) (string, error)
}

type shiftService struct {
	repo   *repository.Repository
	zones  *zoneResolver
	logger *zap.Logger
	now    func() time.Time
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, zones *zoneResolver, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, zones: zones, logger: logger, now: time.Now}
}

func (s *shiftService) Create(ctx context.Context, caller Caller, req *dto.ShiftRequest) (*dto.ShiftResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	if err := s.validateRefs(ctx, caller.OrganizationID, req); err != nil {
		return nil, err
	}

	shift := &model.Shift{
		OrganizationID: caller.OrganizationID,
		Status:         model.ShiftStatusScheduled,
	}
	applyShiftRequest(shift, req)
	shift.CreatedBy = &caller.UserID

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建班次",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("shift_id", shift.ShiftID),
	)
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) Get(ctx context.Context, caller Caller, id string) (*dto.ShiftResponse, error) {
	shift, err := s.getShift(ctx, caller.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	// 员工只能查看本人班次与空班
	if !caller.IsSupervisor() && shift.UserID != nil && *shift.UserID != caller.UserID {
		return nil, ErrShiftNotFound
	}
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) List(ctx context.Context, caller Caller, req *dto.ShiftListRequest) (*dto.ShiftListResponse, error) {
	filter := repository.ShiftFilter{
		From:       req.From,
		To:         req.To,
		UserID:     req.UserID,
		PositionID: req.PositionID,
		Status:     req.Status,
	}
	if !caller.IsSupervisor() {
		filter.VisibleTo = caller.UserID
	}

	shifts, total, err := s.repo.Shift.List(ctx, caller.OrganizationID, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询班次列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		list = append(list, toShiftResponse(&shifts[i]))
	}
	return &dto.ShiftListResponse{Shifts: list, Total: total}, nil
}

func (s *shiftService) Update(ctx context.Context, caller Caller, id string, req *dto.ShiftRequest) (*dto.ShiftResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	shift, err := s.getShift(ctx, caller.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if !shift.IsEditable() {
		return nil, ErrShiftNotEditable
	}
	if err := s.validateRefs(ctx, caller.OrganizationID, req); err != nil {
		return nil, err
	}

	applyShiftRequest(shift, req)
	shift.UpdatedBy = &caller.UserID
	// 关联对象以请求为准，避免返回旧的预加载数据
	shift.User, shift.Position = nil, nil

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新班次失败", zap.Error(err))
		}
		return nil, err
	}

	resp := toShiftResponse(shift)
	return &resp, nil
}

// Cancel 取消班次；重复取消直接返回
func (s *shiftService) Cancel(ctx context.Context, caller Caller, id string) (*dto.ShiftResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	shift, err := s.getShift(ctx, caller.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	switch shift.Status {
	case model.ShiftStatusCancelled:
		resp := toShiftResponse(shift)
		return &resp, nil
	case model.ShiftStatusCompleted:
		return nil, ErrShiftNotEditable
	}

	shift.Status = model.ShiftStatusCancelled
	shift.UpdatedBy = &caller.UserID
	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("取消班次失败", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("取消班次",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("shift_id", shift.ShiftID),
	)
	resp := toShiftResponse(shift)
	return &resp, nil
}

func (s *shiftService) Calendar(ctx context.Context, caller Caller) (string, error) {
	now := s.now().UTC()
	shifts, err := s.repo.Shift.ListByUserBetween(ctx, caller.OrganizationID, caller.UserID,
		now.Add(-calendarLookBack), now.Add(calendarLookAhead))
	if err != nil {
		s.logger.Error("查询日历班次失败", zap.Error(err))
		return "", err
	}

	positions, err := s.repo.Position.List(ctx, caller.OrganizationID)
	if err != nil {
		s.logger.Error("查询岗位失败", zap.Error(err))
		return "", err
	}
	positionNames := make(map[string]string, len(positions))
	for _, p := range positions {
		positionNames[p.PositionID] = p.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//TableHub//Backoffice Shifts//ZH")
	cal.SetXWRCalName("我的班次")

	for _, sh := range shifts {
		if sh.Status == model.ShiftStatusCancelled {
			continue
		}
		event := cal.AddEvent(sh.ShiftID + "@tablehub")
		event.SetDtStampTime(now)
		event.SetStartAt(sh.StartTime.UTC())
		event.SetEndAt(sh.EndTime.UTC())

		summary := "班次"
		if name, ok := positionNames[sh.PositionID]; ok {
			summary = name + " 班次"
		}
		event.SetSummary(summary)
		if sh.BreakMinutes > 0 || sh.Notes != "" {
			event.SetDescription(fmt.Sprintf("休息 %d 分钟 %s", sh.BreakMinutes, sh.Notes))
		}
		if sh.Status == model.ShiftStatusConfirmed {
			event.SetStatus(ics.ObjectStatusConfirmed)
		} else {
			event.SetStatus(ics.ObjectStatusTentative)
		}
	}

	return cal.Serialize(), nil
}

// ── 内部方法 ──

func (s *shiftService) getShift(ctx context.Context, orgID, id string) (*model.Shift, error) {
	shift, err := s.repo.Shift.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	return shift, nil
}

// validateRefs 校验时间区间与跨租户引用
func (s *shiftService) validateRefs(ctx context.Context, orgID string, req *dto.ShiftRequest) error {
	if !req.EndTime.After(req.StartTime) {
		return ErrInvalidShiftRange
	}
	if _, err := s.repo.Position.GetByID(ctx, orgID, req.PositionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPositionNotInOrganization
		}
		s.logger.Error("查询岗位失败", zap.Error(err))
		return err
	}
	if req.UserID != nil && *req.UserID != "" {
		if _, err := s.repo.User.GetByID(ctx, orgID, *req.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkerNotInOrganization
			}
			s.logger.Error("查询员工失败", zap.Error(err))
			return err
		}
	}
	return nil
}

func applyShiftRequest(shift *model.Shift, req *dto.ShiftRequest) {
	shift.UserID = nil
	if req.UserID != nil && *req.UserID != "" {
		uid := *req.UserID
		shift.UserID = &uid
	}
	shift.PositionID = req.PositionID
	shift.StartTime = req.StartTime.UTC()
	shift.EndTime = req.EndTime.UTC()
	if req.BreakMinutes != nil {
		shift.BreakMinutes = *req.BreakMinutes
	} else {
		shift.BreakMinutes = StatutoryBreakMinutes(shift.EndTime.Sub(shift.StartTime))
	}
	if req.Status != "" {
		shift.Status = req.Status
	}
	shift.Notes = req.Notes
}

func toShiftResponse(s *model.Shift) dto.ShiftResponse {
	resp := dto.ShiftResponse{
		ID:           s.ShiftID,
		UserID:       s.UserID,
		PositionID:   s.PositionID,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		BreakMinutes: s.BreakMinutes,
		Status:       s.Status,
		Notes:        s.Notes,
		TemplateID:   s.TemplateID,
		Version:      s.Version,
	}
	if s.User != nil {
		resp.UserName = s.User.Name
	}
	if s.Position != nil {
		resp.PositionName = s.Position.Name
	}
	return resp
}
