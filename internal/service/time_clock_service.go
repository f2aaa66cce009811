package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/config"
	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
	pkgerrors "tablehub/backend/pkg/errors"
	"tablehub/backend/pkg/redis"
)

// ── 打卡模块业务错误 ──

var (
	ErrAlreadyClockedIn     = errors.New("已有未结束的打卡记录")
	ErrNotClockedIn         = errors.New("当前没有进行中的打卡记录")
	ErrBreakInProgress      = errors.New("请先结束休息")
	ErrBreakAlreadyStarted  = errors.New("已有进行中的休息")
	ErrNoActiveBreak        = errors.New("当前没有进行中的休息")
	ErrEntryNotFound        = errors.New("打卡记录不存在")
	ErrEntryImmutable       = errors.New("已审核或已驳回的打卡记录不可修改")
	ErrEntryNotApprovable   = errors.New("仅已下班的打卡记录可以审核")
	ErrEntryAlreadyApproved = errors.New("已审核的打卡记录不可驳回")
	ErrInvalidClockRange    = errors.New("下班时间必须晚于上班时间")
	ErrNoEntryIDs           = errors.New("请至少提供一个打卡记录 ID")
	ErrClockBusy            = errors.New("打卡操作处理中，请稍后重试")
)

var tracer = otel.Tracer("tablehub/backend/internal/service")

// TimeClockService 打卡与审核业务接口
type TimeClockService interface {
	// 员工打卡
	ClockIn(ctx context.Context, caller Caller, req *dto.ClockInRequest) (*dto.ClockResponse, error)
	ClockOut(ctx context.Context, caller Caller) (*dto.ClockResponse, error)
	BreakStart(ctx context.Context, caller Caller) (*dto.BreakEnvelope, error)
	BreakEnd(ctx context.Context, caller Caller) (*dto.BreakEnvelope, error)
	Status(ctx context.Context, caller Caller) (*dto.ClockStatusResponse, error)
	// 查询：员工仅可查看本人记录
	ListEntries(ctx context.Context, caller Caller, req *dto.EntryListRequest) (*dto.EntryListResponse, error)
	// 主管审核
	Approve(ctx context.Context, caller Caller, req *dto.ApproveEntriesRequest) (*dto.ApproveEntriesResponse, error)
	Reject(ctx context.Context, caller Caller, req *dto.RejectEntryRequest) (*dto.EntryEnvelope, error)
	Update(ctx context.Context, caller Caller, req *dto.UpdateEntryRequest) (*dto.EntryEnvelope, error)
}

type timeClockService struct {
	repo    *repository.Repository
	zones   *zoneResolver
	locker  Locker
	lockTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewTimeClockService 创建 TimeClockService 实例，locker 可为 nil
func NewTimeClockService(
	cfg *config.Config,
	repo *repository.Repository,
	zones *zoneResolver,
	locker Locker,
	logger *zap.Logger,
) TimeClockService {
	ttl := cfg.TimeClock.LockTTL
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &timeClockService{
		repo:    repo,
		zones:   zones,
		locker:  locker,
		lockTTL: ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// lockWorker 员工级互斥；Redis 不可用时降级为无锁，由唯一索引兜底
func (s *timeClockService) lockWorker(ctx context.Context, caller Caller) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, "timeclock:"+caller.OrganizationID+":"+caller.UserID, s.lockTTL)
	if err != nil {
		if errors.Is(err, redis.ErrLockNotObtained) {
			return nil, ErrClockBusy
		}
		s.logger.Warn("获取打卡锁失败，降级为无锁执行", zap.String("user_id", caller.UserID), zap.Error(err))
		return func() {}, nil
	}
	return release, nil
}

func startSpan(ctx context.Context, name string, caller Caller) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("organization_id", caller.OrganizationID),
		attribute.String("user_id", caller.UserID),
	))
}

// ════════════════════════════════════════════════════════════
// 员工打卡
// ════════════════════════════════════════════════════════════

func (s *timeClockService) ClockIn(ctx context.Context, caller Caller, req *dto.ClockInRequest) (*dto.ClockResponse, error) {
	ctx, span := startSpan(ctx, "TimeClock.ClockIn", caller)
	defer span.End()

	release, err := s.lockWorker(ctx, caller)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.now().UTC()

	// 1. 已有进行中的记录
	if _, err := s.repo.TimeClockEntry.GetOpenByUser(ctx, caller.OrganizationID, caller.UserID); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中打卡记录失败", zap.Error(err))
		return nil, err
	}

	// 2. 取员工当天（组织时区）的班次对账
	loc, err := s.zones.Location(ctx, caller.OrganizationID)
	if err != nil {
		return nil, err
	}
	dayStart, dayEnd := DayBounds(now, loc)
	shifts, err := s.repo.Shift.ListByUserBetween(ctx, caller.OrganizationID, caller.UserID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("查询当天班次失败", zap.Error(err))
		return nil, err
	}
	result := Reconcile(now, shifts)

	// 3. 写入打卡记录
	entry := &model.TimeClockEntry{
		OrganizationID:          caller.OrganizationID,
		UserID:                  caller.UserID,
		ClockIn:                 now,
		ClockInDeviationMinutes: result.DeviationMinutes,
		HasWarning:              result.Warning,
		Status:                  model.EntryStatusOpen,
		IsSick:                  req.IsSick,
	}
	entry.CreatedBy = &caller.UserID
	if result.Shift != nil {
		shiftID := result.Shift.ShiftID
		start, end := result.Shift.StartTime, result.Shift.EndTime
		entry.ShiftID = &shiftID
		entry.ShiftStartTime = &start
		entry.ShiftEndTime = &end
	}

	// 病假：当天结束时自动下班
	if req.IsSick {
		out := EndOfDay(now, loc)
		if !out.After(now) {
			out = now.Add(time.Second)
		}
		entry.ClockOut = &out
		entry.Status = model.EntryStatusClosed
	}

	if err := s.repo.TimeClockEntry.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyClockedIn
		}
		s.logger.Error("创建打卡记录失败", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("matched", result.Shift != nil), attribute.Bool("warning", result.Warning))
	s.logger.Info("上班打卡",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("user_id", caller.UserID),
		zap.String("entry_id", entry.EntryID),
		zap.Bool("is_sick", req.IsSick),
		zap.Bool("has_warning", entry.HasWarning),
	)

	return &dto.ClockResponse{Entry: toEntryResponse(entry), Warning: clockInWarning(result)}, nil
}

func (s *timeClockService) ClockOut(ctx context.Context, caller Caller) (*dto.ClockResponse, error) {
	ctx, span := startSpan(ctx, "TimeClock.ClockOut", caller)
	defer span.End()

	release, err := s.lockWorker(ctx, caller)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.now().UTC()

	entry, err := s.openEntry(ctx, caller)
	if err != nil {
		return nil, err
	}

	// 休息未结束不可下班
	if _, err := s.repo.BreakEntry.GetOpenByEntry(ctx, caller.OrganizationID, entry.EntryID); err == nil {
		return nil, ErrBreakInProgress
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中休息失败", zap.Error(err))
		return nil, err
	}

	if !now.After(entry.ClockIn) {
		return nil, ErrInvalidClockRange
	}

	// 以上班时的班次快照计算下班偏差；预警一旦产生不会被下班打卡清除
	var dev *int
	if entry.ShiftEndTime != nil {
		d := DeviationMinutes(now, *entry.ShiftEndTime)
		dev = &d
	}
	entry.ClockOut = &now
	entry.ClockOutDeviationMinutes = dev
	entry.HasWarning = entry.HasWarning || IsDeviationWarning(dev)
	entry.Status = model.EntryStatusClosed
	entry.UpdatedBy = &caller.UserID

	if err := s.repo.TimeClockEntry.Update(ctx, entry); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新打卡记录失败", zap.Error(err))
		}
		return nil, err
	}

	if entry.ShiftID != nil {
		if err := s.repo.Shift.MarkCompleted(ctx, caller.OrganizationID, *entry.ShiftID, caller.UserID); err != nil {
			s.logger.Warn("标记班次完成失败", zap.String("shift_id", *entry.ShiftID), zap.Error(err))
		}
	}

	s.logger.Info("下班打卡",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("user_id", caller.UserID),
		zap.String("entry_id", entry.EntryID),
		zap.Bool("has_warning", entry.HasWarning),
	)

	return &dto.ClockResponse{Entry: toEntryResponse(entry), Warning: clockOutWarning(dev)}, nil
}

func (s *timeClockService) BreakStart(ctx context.Context, caller Caller) (*dto.BreakEnvelope, error) {
	ctx, span := startSpan(ctx, "TimeClock.BreakStart", caller)
	defer span.End()

	release, err := s.lockWorker(ctx, caller)
	if err != nil {
		return nil, err
	}
	defer release()

	entry, err := s.openEntry(ctx, caller)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.BreakEntry.GetOpenByEntry(ctx, caller.OrganizationID, entry.EntryID); err == nil {
		return nil, ErrBreakAlreadyStarted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中休息失败", zap.Error(err))
		return nil, err
	}

	b := &model.BreakEntry{
		OrganizationID:   caller.OrganizationID,
		UserID:           caller.UserID,
		TimeClockEntryID: entry.EntryID,
		BreakStart:       s.now().UTC(),
	}
	if err := s.repo.BreakEntry.Create(ctx, b); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBreakAlreadyStarted
		}
		s.logger.Error("创建休息记录失败", zap.Error(err))
		return nil, err
	}

	return &dto.BreakEnvelope{Break: toBreakResponse(b)}, nil
}

func (s *timeClockService) BreakEnd(ctx context.Context, caller Caller) (*dto.BreakEnvelope, error) {
	ctx, span := startSpan(ctx, "TimeClock.BreakEnd", caller)
	defer span.End()

	release, err := s.lockWorker(ctx, caller)
	if err != nil {
		return nil, err
	}
	defer release()

	entry, err := s.openEntry(ctx, caller)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.BreakEntry.GetOpenByEntry(ctx, caller.OrganizationID, entry.EntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveBreak
		}
		s.logger.Error("查询进行中休息失败", zap.Error(err))
		return nil, err
	}

	if err := s.repo.BreakEntry.Close(ctx, b, s.now().UTC()); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrNoActiveBreak
		}
		s.logger.Error("结束休息失败", zap.Error(err))
		return nil, err
	}

	return &dto.BreakEnvelope{Break: toBreakResponse(b)}, nil
}

func (s *timeClockService) Status(ctx context.Context, caller Caller) (*dto.ClockStatusResponse, error) {
	resp := &dto.ClockStatusResponse{}

	entry, err := s.repo.TimeClockEntry.GetOpenByUser(ctx, caller.OrganizationID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.logger.Error("查询进行中打卡记录失败", zap.Error(err))
		return nil, err
	}
	e := toEntryResponse(entry)
	resp.Entry = &e

	b, err := s.repo.BreakEntry.GetOpenByEntry(ctx, caller.OrganizationID, entry.EntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.logger.Error("查询进行中休息失败", zap.Error(err))
		return nil, err
	}
	br := toBreakResponse(b)
	resp.Break = &br
	return resp, nil
}

func (s *timeClockService) openEntry(ctx context.Context, caller Caller) (*model.TimeClockEntry, error) {
	entry, err := s.repo.TimeClockEntry.GetOpenByUser(ctx, caller.OrganizationID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		s.logger.Error("查询进行中打卡记录失败", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *timeClockService) ListEntries(ctx context.Context, caller Caller, req *dto.EntryListRequest) (*dto.EntryListResponse, error) {
	filter := repository.EntryFilter{
		From:   req.From,
		To:     req.To,
		UserID: req.UserID,
		Status: req.Status,
	}
	if !caller.IsSupervisor() {
		if req.UserID != "" && req.UserID != caller.UserID {
			return nil, ErrPermissionDenied
		}
		filter.UserID = caller.UserID
	}

	entries, total, err := s.repo.TimeClockEntry.List(ctx, caller.OrganizationID, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询打卡记录失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.TimeClockEntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toEntryResponse(&entries[i]))
	}
	return &dto.EntryListResponse{Entries: list, Total: total}, nil
}

// ════════════════════════════════════════════════════════════
// 主管审核
// ════════════════════════════════════════════════════════════

// Approve 批量审核
// 已审核的记录原样返回，不重复写审核人与审核时间；任一记录不存在或不可审核时整体失败
func (s *timeClockService) Approve(ctx context.Context, caller Caller, req *dto.ApproveEntriesRequest) (*dto.ApproveEntriesResponse, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}
	ids := req.IDs()
	if len(ids) == 0 {
		return nil, ErrNoEntryIDs
	}

	ctx, span := startSpan(ctx, "TimeClock.Approve", caller)
	defer span.End()
	span.SetAttributes(attribute.Int("entry_count", len(ids)))

	now := s.now().UTC()
	var approved []model.TimeClockEntry

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		entries, err := txRepo.TimeClockEntry.ListByIDs(ctx, caller.OrganizationID, ids)
		if err != nil {
			return err
		}
		if len(entries) != len(ids) {
			return ErrEntryNotFound
		}

		pending := make([]string, 0, len(entries))
		logs := make([]model.TimeClockChangeLog, 0, len(entries))
		for _, e := range entries {
			switch e.Status {
			case model.EntryStatusApproved:
				continue
			case model.EntryStatusClosed:
				pending = append(pending, e.EntryID)
				logs = append(logs, model.TimeClockChangeLog{
					OrganizationID: caller.OrganizationID,
					EntryID:        e.EntryID,
					Action:         model.ChangeActionApprove,
					OperatorID:     caller.UserID,
				})
			default:
				return ErrEntryNotApprovable
			}
		}

		n, err := txRepo.TimeClockEntry.Approve(ctx, caller.OrganizationID, pending, caller.UserID, now)
		if err != nil {
			return err
		}
		if n != int64(len(pending)) {
			return pkgerrors.ErrOptimisticLock
		}
		if err := txRepo.TimeClockChangeLog.BatchCreate(ctx, logs); err != nil {
			return err
		}

		approved, err = txRepo.TimeClockEntry.ListByIDs(ctx, caller.OrganizationID, ids)
		return err
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("审核打卡记录失败", zap.Error(err))
		}
		return nil, err
	}

	list := make([]dto.TimeClockEntryResponse, 0, len(approved))
	for i := range approved {
		list = append(list, toEntryResponse(&approved[i]))
	}

	s.logger.Info("审核打卡记录",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("operator_id", caller.UserID),
		zap.Int("count", len(list)),
	)
	return &dto.ApproveEntriesResponse{Entries: list, Count: len(list)}, nil
}

// Reject 驳回：记录保留并标记为 rejected；进行中的记录会一并结束其休息
func (s *timeClockService) Reject(ctx context.Context, caller Caller, req *dto.RejectEntryRequest) (*dto.EntryEnvelope, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}

	ctx, span := startSpan(ctx, "TimeClock.Reject", caller)
	defer span.End()

	now := s.now().UTC()
	var entry *model.TimeClockEntry

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		entry, err = txRepo.TimeClockEntry.GetByID(ctx, caller.OrganizationID, req.EntryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		switch entry.Status {
		case model.EntryStatusRejected:
			return nil
		case model.EntryStatusApproved:
			return ErrEntryAlreadyApproved
		case model.EntryStatusOpen:
			b, err := txRepo.BreakEntry.GetOpenByEntry(ctx, caller.OrganizationID, entry.EntryID)
			if err == nil {
				if err := txRepo.BreakEntry.Close(ctx, b, now); err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		entry.Status = model.EntryStatusRejected
		entry.RejectedBy = &caller.UserID
		entry.RejectedAt = &now
		entry.RejectReason = req.Reason
		entry.UpdatedBy = &caller.UserID
		if err := txRepo.TimeClockEntry.Update(ctx, entry); err != nil {
			return err
		}

		return txRepo.TimeClockChangeLog.Create(ctx, &model.TimeClockChangeLog{
			OrganizationID: caller.OrganizationID,
			EntryID:        entry.EntryID,
			Action:         model.ChangeActionReject,
			OldClockIn:     &entry.ClockIn,
			OldClockOut:    entry.ClockOut,
			Reason:         req.Reason,
			OperatorID:     caller.UserID,
		})
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("驳回打卡记录失败", zap.Error(err))
		}
		return nil, err
	}

	return &dto.EntryEnvelope{Entry: toEntryResponse(entry)}, nil
}

// Update 主管修正上下班时间，按班次快照重新计算偏差与预警
// clock_out 未提供时保留原下班时间
func (s *timeClockService) Update(ctx context.Context, caller Caller, req *dto.UpdateEntryRequest) (*dto.EntryEnvelope, error) {
	if !caller.IsSupervisor() {
		return nil, ErrPermissionDenied
	}

	ctx, span := startSpan(ctx, "TimeClock.Update", caller)
	defer span.End()

	var entry *model.TimeClockEntry

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		entry, err = txRepo.TimeClockEntry.GetByID(ctx, caller.OrganizationID, req.EntryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		if entry.IsFinal() {
			return ErrEntryImmutable
		}

		oldIn, oldOut := entry.ClockIn, entry.ClockOut

		newIn := req.ClockIn.UTC()
		newOut := entry.ClockOut
		if req.ClockOut != nil {
			out := req.ClockOut.UTC()
			newOut = &out
		}
		if newOut != nil && !newOut.After(newIn) {
			return ErrInvalidClockRange
		}

		// 进行中的记录被补填下班时间时，休息必须已结束
		if entry.Status == model.EntryStatusOpen && newOut != nil {
			if _, err := txRepo.BreakEntry.GetOpenByEntry(ctx, caller.OrganizationID, entry.EntryID); err == nil {
				return ErrBreakInProgress
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			entry.Status = model.EntryStatusClosed
		}

		entry.ClockIn = newIn
		entry.ClockOut = newOut
		recomputeDeviations(entry)
		entry.UpdatedBy = &caller.UserID

		if err := txRepo.TimeClockEntry.Update(ctx, entry); err != nil {
			return err
		}

		return txRepo.TimeClockChangeLog.Create(ctx, &model.TimeClockChangeLog{
			OrganizationID: caller.OrganizationID,
			EntryID:        entry.EntryID,
			Action:         model.ChangeActionUpdate,
			OldClockIn:     &oldIn,
			OldClockOut:    oldOut,
			NewClockIn:     &entry.ClockIn,
			NewClockOut:    entry.ClockOut,
			OperatorID:     caller.UserID,
		})
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("修正打卡记录失败", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("修正打卡记录",
		zap.String("organization_id", caller.OrganizationID),
		zap.String("entry_id", entry.EntryID),
		zap.String("operator_id", caller.UserID),
	)
	return &dto.EntryEnvelope{Entry: toEntryResponse(entry)}, nil
}

// recomputeDeviations 依据班次快照重新计算上下班偏差与预警
func recomputeDeviations(entry *model.TimeClockEntry) {
	entry.ClockInDeviationMinutes = nil
	entry.ClockOutDeviationMinutes = nil

	if entry.ShiftStartTime == nil {
		entry.HasWarning = true
		return
	}

	in := DeviationMinutes(entry.ClockIn, *entry.ShiftStartTime)
	entry.ClockInDeviationMinutes = &in
	warning := IsDeviationWarning(&in)

	if entry.ClockOut != nil && entry.ShiftEndTime != nil {
		out := DeviationMinutes(*entry.ClockOut, *entry.ShiftEndTime)
		entry.ClockOutDeviationMinutes = &out
		warning = warning || IsDeviationWarning(&out)
	}
	entry.HasWarning = warning
}

// isBusinessError 业务错误无需记录 Error 日志
func isBusinessError(err error) bool {
	for _, target := range []error{
		ErrEntryNotFound, ErrEntryImmutable, ErrEntryNotApprovable, ErrEntryAlreadyApproved,
		ErrInvalidClockRange, ErrBreakInProgress, pkgerrors.ErrOptimisticLock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ── 转换 ──

func toEntryResponse(e *model.TimeClockEntry) dto.TimeClockEntryResponse {
	resp := dto.TimeClockEntryResponse{
		ID:                       e.EntryID,
		OrganizationID:           e.OrganizationID,
		UserID:                   e.UserID,
		ShiftID:                  e.ShiftID,
		ClockIn:                  e.ClockIn,
		ClockOut:                 e.ClockOut,
		ShiftStartTime:           e.ShiftStartTime,
		ShiftEndTime:             e.ShiftEndTime,
		ClockInDeviationMinutes:  e.ClockInDeviationMinutes,
		ClockOutDeviationMinutes: e.ClockOutDeviationMinutes,
		HasWarning:               e.HasWarning,
		Status:                   e.Status,
		IsApproved:               e.IsApproved,
		ApprovedBy:               e.ApprovedBy,
		ApprovedAt:               e.ApprovedAt,
		RejectedBy:               e.RejectedBy,
		RejectedAt:               e.RejectedAt,
		RejectReason:             e.RejectReason,
		IsSick:                   e.IsSick,
	}
	for i := range e.Breaks {
		resp.Breaks = append(resp.Breaks, toBreakResponse(&e.Breaks[i]))
	}
	return resp
}

func toBreakResponse(b *model.BreakEntry) dto.BreakResponse {
	return dto.BreakResponse{
		ID:               b.BreakID,
		UserID:           b.UserID,
		TimeClockEntryID: b.TimeClockEntryID,
		BreakStart:       b.BreakStart,
		BreakEnd:         b.BreakEnd,
	}
}
