package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
)

// ── 班次模板业务错误 ──

var (
	ErrTemplateNotFound = errors.New("班次模板不存在")
	ErrTemplateInactive = errors.New("班次模板已停用")
	ErrInvalidWeekStart = errors.New("week_start 日期格式错误")
)

// ShiftTemplateService 班次模板业务接口
type ShiftTemplateService interface {
	Create(ctx context.Context, caller Caller, req *dto.CreateShiftTemplateRequest) (*dto.ShiftTemplateResponse, error)
	List(ctx context.Context, caller Caller) ([]dto.ShiftTemplateResponse, error)
	Delete(ctx context.Context, caller Caller, id string) error
	// Apply 将模板展开为 week_start 所在 ISO 周的班次
	Apply(ctx context.Context, caller Caller, id string, req *dto.ApplyShiftTemplateRequest) (*dto.ApplyShiftTemplateResponse, error)
}

type shiftTemplateService struct {
	repo   *repository.Repository
	zones  *zoneResolver
	logger *zap.Logger
}

// NewShiftTemplateService 创建 ShiftTemplateService 实例
func NewShiftTemplateService(repo *repository.Repository, zones *zoneResolver, logger *zap.Logger) ShiftTemplateService {
	return &shiftTemplateService{repo: repo, zones: zones, logger: logger}
}

func (s *shiftTemplateService) Create(ctx context.Context, caller Caller, req *dto.CreateShiftTemplateRequest) (*dto.ShiftTemplateResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	if req.StartTime == req.EndTime {
		return nil, ErrInvalidShiftRange
	}
	if _, _, err := parseHHMM(req.StartTime); err != nil {
		return nil, err
	}
	if _, _, err := parseHHMM(req.EndTime); err != nil {
		return nil, err
	}

	if _, err := s.repo.Position.GetByID(ctx, caller.OrganizationID, req.PositionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotInOrganization
		}
		s.logger.Error("查询岗位失败", zap.Error(err))
		return nil, err
	}
	if req.UserID != nil && *req.UserID != "" {
		if _, err := s.repo.User.GetByID(ctx, caller.OrganizationID, *req.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrWorkerNotInOrganization
			}
			s.logger.Error("查询员工失败", zap.Error(err))
			return nil, err
		}
	}

	tpl := &model.ShiftTemplate{
		OrganizationID: caller.OrganizationID,
		Name:           req.Name,
		PositionID:     req.PositionID,
		UserID:         req.UserID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		DaysOfWeek:     normalizeDays(req.DaysOfWeek),
		IsActive:       true,
	}
	tpl.CreatedBy = &caller.UserID

	if err := s.repo.ShiftTemplate.Create(ctx, tpl); err != nil {
		s.logger.Error("创建班次模板失败", zap.Error(err))
		return nil, err
	}

	resp := toTemplateResponse(tpl)
	return &resp, nil
}

func (s *shiftTemplateService) List(ctx context.Context, caller Caller) ([]dto.ShiftTemplateResponse, error) {
	tpls, err := s.repo.ShiftTemplate.List(ctx, caller.OrganizationID)
	if err != nil {
		s.logger.Error("查询班次模板失败", zap.Error(err))
		return nil, err
	}
	list := make([]dto.ShiftTemplateResponse, 0, len(tpls))
	for i := range tpls {
		list = append(list, toTemplateResponse(&tpls[i]))
	}
	return list, nil
}

func (s *shiftTemplateService) Delete(ctx context.Context, caller Caller, id string) error {
	if !caller.IsSupervisor() {
		return ErrPermissionDenied
	}
	if _, err := s.getTemplate(ctx, caller.OrganizationID, id); err != nil {
		return err
	}
	if err := s.repo.ShiftTemplate.Delete(ctx, caller.OrganizationID, id, caller.UserID); err != nil {
		s.logger.Error("删除班次模板失败", zap.Error(err))
		return err
	}
	return nil
}

// Apply 按组织时区展开模板
// 当天已存在同模板的未取消班次则跳过；结束时刻不晚于开始时刻的模板视为跨夜班
func (s *shiftTemplateService) Apply(ctx context.Context, caller Caller, id string, req *dto.ApplyShiftTemplateRequest) (*dto.ApplyShiftTemplateResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	tpl, err := s.getTemplate(ctx, caller.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, ErrTemplateInactive
	}

	loc, err := s.zones.Location(ctx, caller.OrganizationID)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation("2006-01-02", req.WeekStart, loc)
	if err != nil {
		return nil, ErrInvalidWeekStart
	}
	monday := isoWeekStart(day)
	nextMonday := monday.AddDate(0, 0, 7)

	existing, err := s.repo.Shift.ListByTemplateBetween(ctx, caller.OrganizationID, tpl.TemplateID, monday, nextMonday)
	if err != nil {
		s.logger.Error("查询模板已生成班次失败", zap.Error(err))
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, sh := range existing {
		taken[sh.StartTime.In(loc).Format("2006-01-02")] = true
	}

	shifts, skipped, err := expandTemplate(tpl, monday, loc, taken)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		shifts[i].CreatedBy = &caller.UserID
	}

	if err := s.repo.Shift.BatchCreate(ctx, shifts); err != nil {
		s.logger.Error("批量创建班次失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("应用班次模板",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("template_id", tpl.TemplateID),
		zap.String("week_start", monday.Format("2006-01-02")),
		zap.Int("created", len(shifts)),
		zap.Int("skipped", skipped),
	)

	created := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		created = append(created, toShiftResponse(&shifts[i]))
	}
	return &dto.ApplyShiftTemplateResponse{Created: created, Skipped: skipped}, nil
}

func (s *shiftTemplateService) getTemplate(ctx context.Context, orgID, id string) (*model.ShiftTemplate, error) {
	tpl, err := s.repo.ShiftTemplate.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("查询班次模板失败", zap.Error(err))
		return nil, err
	}
	return tpl, nil
}

// ── 模板展开 ──

// expandTemplate 生成 monday 所在周的班次，taken 中的日期（组织时区 YYYY-MM-DD）跳过
func expandTemplate(tpl *model.ShiftTemplate, monday time.Time, loc *time.Location, taken map[string]bool) ([]model.Shift, int, error) {
	sh, sm, err := parseHHMM(tpl.StartTime)
	if err != nil {
		return nil, 0, err
	}
	eh, em, err := parseHHMM(tpl.EndTime)
	if err != nil {
		return nil, 0, err
	}

	var (
		shifts  []model.Shift
		skipped int
	)
	for _, dow := range normalizeDays(tpl.DaysOfWeek) {
		day := monday.AddDate(0, 0, dow-1)
		if taken[day.Format("2006-01-02")] {
			skipped++
			continue
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
		end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, loc)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		templateID := tpl.TemplateID
		shifts = append(shifts, model.Shift{
			OrganizationID: tpl.OrganizationID,
			UserID:         tpl.UserID,
			PositionID:     tpl.PositionID,
			StartTime:      start.UTC(),
			EndTime:        end.UTC(),
			BreakMinutes:   StatutoryBreakMinutes(end.Sub(start)),
			Status:         model.ShiftStatusScheduled,
			TemplateID:     &templateID,
		})
	}
	return shifts, skipped, nil
}

// isoWeekStart t 所在 ISO 周的周一零点（保持 t 的时区）
func isoWeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

func parseHHMM(s string) (int, int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("非法时刻 %q", s)
	}
	h, errH := strconv.Atoi(s[:2])
	m, errM := strconv.Atoi(s[3:])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("非法时刻 %q", s)
	}
	return h, m, nil
}

// normalizeDays 去重、排序并过滤 1..7 以外的值
func normalizeDays(days []int) model.IntArray {
	seen := make(map[int]bool, len(days))
	out := make(model.IntArray, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func toTemplateResponse(t *model.ShiftTemplate) dto.ShiftTemplateResponse {
	return dto.ShiftTemplateResponse{
		ID:         t.TemplateID,
		Name:       t.Name,
		PositionID: t.PositionID,
		UserID:     t.UserID,
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
		DaysOfWeek: []int(t.DaysOfWeek),
		IsActive:   t.IsActive,
	}
}
