package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
	pkgerrors "tablehub/backend/pkg/errors"
)

// ── Mock OrganizationRepository ──

type mockOrgRepo struct {
	orgs map[string]*model.Organization
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrgRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = fmt.Sprintf("org-%d", len(m.orgs)+1)
	}
	cp := *org
	m.orgs[org.OrganizationID] = &cp
	return nil
}

func (m *mockOrgRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, orgID, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok && u.OrganizationID == orgID {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, orgID string, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if u.OrganizationID != orgID || !u.IsActive {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.PositionID != "" && (u.PositionID == nil || *u.PositionID != filter.PositionID) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return paginate(result, offset, limit), int64(len(result)), nil
}

// ── Mock PositionRepository ──

type mockPositionRepo struct {
	positions map[string]*model.Position
}

func newMockPositionRepo() *mockPositionRepo {
	return &mockPositionRepo{positions: make(map[string]*model.Position)}
}

func (m *mockPositionRepo) Create(_ context.Context, p *model.Position) error {
	for _, existing := range m.positions {
		if existing.OrganizationID == p.OrganizationID && existing.Name == p.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.PositionID == "" {
		p.PositionID = fmt.Sprintf("pos-%d", len(m.positions)+1)
	}
	cp := *p
	m.positions[p.PositionID] = &cp
	return nil
}

func (m *mockPositionRepo) GetByID(_ context.Context, orgID, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok && p.OrganizationID == orgID {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPositionRepo) List(_ context.Context, orgID string) ([]model.Position, error) {
	var result []model.Position
	for _, p := range m.positions {
		if p.OrganizationID == orgID && p.IsActive {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.seq++
	if shift.ShiftID == "" {
		shift.ShiftID = fmt.Sprintf("shift-%d", m.seq)
	}
	if shift.Version == 0 {
		shift.Version = 1
	}
	cp := *shift
	m.shifts[shift.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) BatchCreate(ctx context.Context, shifts []model.Shift) error {
	for i := range shifts {
		if err := m.Create(ctx, &shifts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, orgID, id string) (*model.Shift, error) {
	if s, ok := m.shifts[id]; ok && s.OrganizationID == orgID {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) List(_ context.Context, orgID string, filter repository.ShiftFilter, offset, limit int) ([]model.Shift, int64, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.OrganizationID != orgID {
			continue
		}
		if !filter.From.IsZero() && s.StartTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !s.StartTime.Before(filter.To) {
			continue
		}
		if filter.UserID != "" && (s.UserID == nil || *s.UserID != filter.UserID) {
			continue
		}
		if filter.PositionID != "" && s.PositionID != filter.PositionID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.VisibleTo != "" && s.UserID != nil && *s.UserID != filter.VisibleTo {
			continue
		}
		result = append(result, *s)
	}
	sortShifts(result)
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockShiftRepo) ListByUserBetween(_ context.Context, orgID, userID string, from, to time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.OrganizationID == orgID && s.UserID != nil && *s.UserID == userID &&
			!s.StartTime.Before(from) && s.StartTime.Before(to) {
			result = append(result, *s)
		}
	}
	sortShifts(result)
	return result, nil
}

func (m *mockShiftRepo) ListByTemplateBetween(_ context.Context, orgID, templateID string, from, to time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.OrganizationID == orgID && s.TemplateID != nil && *s.TemplateID == templateID &&
			s.Status != model.ShiftStatusCancelled &&
			!s.StartTime.Before(from) && s.StartTime.Before(to) {
			result = append(result, *s)
		}
	}
	sortShifts(result)
	return result, nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	stored, ok := m.shifts[shift.ShiftID]
	if !ok || stored.OrganizationID != shift.OrganizationID || stored.Version != shift.Version {
		return pkgerrors.ErrOptimisticLock
	}
	shift.Version++
	cp := *shift
	m.shifts[shift.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) MarkCompleted(_ context.Context, orgID, id, _ string) error {
	if s, ok := m.shifts[id]; ok && s.OrganizationID == orgID && s.IsMatchable() {
		s.Status = model.ShiftStatusCompleted
		s.Version++
	}
	return nil
}

func sortShifts(shifts []model.Shift) {
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartTime.Before(shifts[j].StartTime) })
}

// ── Mock ShiftTemplateRepository ──

type mockShiftTemplateRepo struct {
	templates map[string]*model.ShiftTemplate
}

func newMockShiftTemplateRepo() *mockShiftTemplateRepo {
	return &mockShiftTemplateRepo{templates: make(map[string]*model.ShiftTemplate)}
}

func (m *mockShiftTemplateRepo) Create(_ context.Context, tpl *model.ShiftTemplate) error {
	if tpl.TemplateID == "" {
		tpl.TemplateID = fmt.Sprintf("tpl-%d", len(m.templates)+1)
	}
	cp := *tpl
	m.templates[tpl.TemplateID] = &cp
	return nil
}

func (m *mockShiftTemplateRepo) GetByID(_ context.Context, orgID, id string) (*model.ShiftTemplate, error) {
	if t, ok := m.templates[id]; ok && t.OrganizationID == orgID {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftTemplateRepo) List(_ context.Context, orgID string) ([]model.ShiftTemplate, error) {
	var result []model.ShiftTemplate
	for _, t := range m.templates {
		if t.OrganizationID == orgID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockShiftTemplateRepo) Delete(_ context.Context, orgID, id, _ string) error {
	if t, ok := m.templates[id]; ok && t.OrganizationID == orgID {
		delete(m.templates, id)
	}
	return nil
}

// ── Mock TimeClockEntryRepository ──

type mockEntryRepo struct {
	entries map[string]*model.TimeClockEntry
	breaks  *mockBreakRepo
	seq     int
}

func newMockEntryRepo(breaks *mockBreakRepo) *mockEntryRepo {
	return &mockEntryRepo{entries: make(map[string]*model.TimeClockEntry), breaks: breaks}
}

// Create 模拟 (organization_id, user_id) WHERE status='open' 部分唯一索引
func (m *mockEntryRepo) Create(_ context.Context, entry *model.TimeClockEntry) error {
	if entry.Status == model.EntryStatusOpen {
		for _, e := range m.entries {
			if e.OrganizationID == entry.OrganizationID && e.UserID == entry.UserID && e.Status == model.EntryStatusOpen {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	m.seq++
	if entry.EntryID == "" {
		entry.EntryID = fmt.Sprintf("entry-%d", m.seq)
	}
	entry.Version = 1
	cp := *entry
	m.entries[entry.EntryID] = &cp
	return nil
}

func (m *mockEntryRepo) GetByID(_ context.Context, orgID, id string) (*model.TimeClockEntry, error) {
	if e, ok := m.entries[id]; ok && e.OrganizationID == orgID {
		cp := *e
		cp.Breaks = m.breaks.byEntry(id)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntryRepo) GetOpenByUser(_ context.Context, orgID, userID string) (*model.TimeClockEntry, error) {
	for _, e := range m.entries {
		if e.OrganizationID == orgID && e.UserID == userID && e.Status == model.EntryStatusOpen {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntryRepo) ListByIDs(_ context.Context, orgID string, ids []string) ([]model.TimeClockEntry, error) {
	var result []model.TimeClockEntry
	for _, id := range ids {
		if e, ok := m.entries[id]; ok && e.OrganizationID == orgID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEntryRepo) filter(orgID string, f repository.EntryFilter) []model.TimeClockEntry {
	var result []model.TimeClockEntry
	for _, e := range m.entries {
		if e.OrganizationID != orgID {
			continue
		}
		if !f.From.IsZero() && e.ClockIn.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !e.ClockIn.Before(f.To) {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		cp := *e
		cp.Breaks = m.breaks.byEntry(e.EntryID)
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClockIn.Before(result[j].ClockIn) })
	return result
}

func (m *mockEntryRepo) List(_ context.Context, orgID string, f repository.EntryFilter, offset, limit int) ([]model.TimeClockEntry, int64, error) {
	result := m.filter(orgID, f)
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockEntryRepo) ListForExport(_ context.Context, orgID string, f repository.EntryFilter) ([]model.TimeClockEntry, error) {
	return m.filter(orgID, f), nil
}

func (m *mockEntryRepo) Update(_ context.Context, entry *model.TimeClockEntry) error {
	stored, ok := m.entries[entry.EntryID]
	if !ok || stored.OrganizationID != entry.OrganizationID || stored.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version++
	cp := *entry
	cp.Breaks = nil
	// 审核字段只由 Approve 写入
	cp.IsApproved, cp.ApprovedBy, cp.ApprovedAt = stored.IsApproved, stored.ApprovedBy, stored.ApprovedAt
	m.entries[entry.EntryID] = &cp
	return nil
}

func (m *mockEntryRepo) Approve(_ context.Context, orgID string, ids []string, approverID string, at time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		e, ok := m.entries[id]
		if !ok || e.OrganizationID != orgID || e.Status != model.EntryStatusClosed {
			continue
		}
		approver, ts := approverID, at
		e.Status = model.EntryStatusApproved
		e.IsApproved = true
		e.ApprovedBy = &approver
		e.ApprovedAt = &ts
		e.Version++
		n++
	}
	return n, nil
}

// ── Mock BreakEntryRepository ──

type mockBreakRepo struct {
	breaks map[string]*model.BreakEntry
	seq    int
}

func newMockBreakRepo() *mockBreakRepo {
	return &mockBreakRepo{breaks: make(map[string]*model.BreakEntry)}
}

func (m *mockBreakRepo) Create(_ context.Context, b *model.BreakEntry) error {
	for _, existing := range m.breaks {
		if existing.TimeClockEntryID == b.TimeClockEntryID && existing.BreakEnd == nil {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	if b.BreakID == "" {
		b.BreakID = fmt.Sprintf("break-%d", m.seq)
	}
	cp := *b
	m.breaks[b.BreakID] = &cp
	return nil
}

func (m *mockBreakRepo) GetOpenByEntry(_ context.Context, orgID, entryID string) (*model.BreakEntry, error) {
	for _, b := range m.breaks {
		if b.OrganizationID == orgID && b.TimeClockEntryID == entryID && b.BreakEnd == nil {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBreakRepo) Close(_ context.Context, b *model.BreakEntry, end time.Time) error {
	stored, ok := m.breaks[b.BreakID]
	if !ok || stored.BreakEnd != nil {
		return pkgerrors.ErrOptimisticLock
	}
	stored.BreakEnd = &end
	b.BreakEnd = &end
	return nil
}

func (m *mockBreakRepo) byEntry(entryID string) []model.BreakEntry {
	var result []model.BreakEntry
	for _, b := range m.breaks {
		if b.TimeClockEntryID == entryID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BreakStart.Before(result[j].BreakStart) })
	return result
}

// ── Mock TimeClockChangeLogRepository ──

type mockChangeLogRepo struct {
	logs []model.TimeClockChangeLog
}

func newMockChangeLogRepo() *mockChangeLogRepo {
	return &mockChangeLogRepo{}
}

func (m *mockChangeLogRepo) Create(_ context.Context, log *model.TimeClockChangeLog) error {
	log.ChangeLogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockChangeLogRepo) BatchCreate(ctx context.Context, logs []model.TimeClockChangeLog) error {
	for i := range logs {
		if err := m.Create(ctx, &logs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockChangeLogRepo) ListByEntry(_ context.Context, orgID, entryID string) ([]model.TimeClockChangeLog, error) {
	var result []model.TimeClockChangeLog
	for _, l := range m.logs {
		if l.OrganizationID == orgID && l.EntryID == entryID {
			result = append(result, l)
		}
	}
	return result, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ═══════════════════════════════════════════════════════════
// 测试环境
// ═══════════════════════════════════════════════════════════

const (
	testOrgID      = "org-1"
	otherOrgID     = "org-2"
	testPositionID = "pos-kitchen"
	testWorkerID   = "user-worker"
	testManagerID  = "user-manager"
)

type testEnv struct {
	orgs      *mockOrgRepo
	users     *mockUserRepo
	positions *mockPositionRepo
	shifts    *mockShiftRepo
	templates *mockShiftTemplateRepo
	entries   *mockEntryRepo
	breaks    *mockBreakRepo
	changeLog *mockChangeLogRepo
	repo      *repository.Repository
	zones     *zoneResolver
}

// newTestEnv 两个组织：org-1（tz 指定）含一名员工与一名经理，org-2 含一名员工
func newTestEnv(timezone string) *testEnv {
	env := &testEnv{
		orgs:      newMockOrgRepo(),
		users:     newMockUserRepo(),
		positions: newMockPositionRepo(),
		shifts:    newMockShiftRepo(),
		templates: newMockShiftTemplateRepo(),
		breaks:    newMockBreakRepo(),
		changeLog: newMockChangeLogRepo(),
	}
	env.entries = newMockEntryRepo(env.breaks)
	env.repo = &repository.Repository{
		Organization:       env.orgs,
		User:               env.users,
		Position:           env.positions,
		Shift:              env.shifts,
		ShiftTemplate:      env.templates,
		TimeClockEntry:     env.entries,
		BreakEntry:         env.breaks,
		TimeClockChangeLog: env.changeLog,
	}
	env.zones = newZoneResolver(env.repo, "UTC", zap.NewNop())

	env.orgs.orgs[testOrgID] = &model.Organization{OrganizationID: testOrgID, Name: "小馆", Timezone: timezone, IsActive: true}
	env.orgs.orgs[otherOrgID] = &model.Organization{OrganizationID: otherOrgID, Name: "隔壁", Timezone: "UTC", IsActive: true}
	env.positions.positions[testPositionID] = &model.Position{PositionID: testPositionID, OrganizationID: testOrgID, Name: "厨房", IsActive: true}
	env.positions.positions["pos-other"] = &model.Position{PositionID: "pos-other", OrganizationID: otherOrgID, Name: "吧台", IsActive: true}

	pos := testPositionID
	env.users.users[testWorkerID] = &model.User{UserID: testWorkerID, OrganizationID: testOrgID, Name: "阿明", Email: "worker@example.com", Role: model.RoleEmployee, PositionID: &pos, IsActive: true}
	env.users.users[testManagerID] = &model.User{UserID: testManagerID, OrganizationID: testOrgID, Name: "老王", Email: "manager@example.com", Role: model.RoleManager, IsActive: true}
	env.users.users["user-other"] = &model.User{UserID: "user-other", OrganizationID: otherOrgID, Name: "外人", Email: "other@example.com", Role: model.RoleEmployee, IsActive: true}
	return env
}

// addShift 为员工添加一个计划中的班次
func (env *testEnv) addShift(userID string, start, end time.Time) *model.Shift {
	uid := userID
	s := &model.Shift{
		OrganizationID: testOrgID,
		UserID:         &uid,
		PositionID:     testPositionID,
		StartTime:      start,
		EndTime:        end,
		Status:         model.ShiftStatusScheduled,
	}
	_ = env.shifts.Create(context.Background(), s)
	return s
}

func workerCaller() Caller {
	return Caller{UserID: testWorkerID, OrganizationID: testOrgID, Role: model.RoleEmployee}
}

func managerCaller() Caller {
	return Caller{UserID: testManagerID, OrganizationID: testOrgID, Role: model.RoleManager}
}

// fakeClock 可控时钟
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(t time.Time) { c.now = t }

// fakeLocker 记录加锁 key，可注入错误
type fakeLocker struct {
	keys []string
	err  error
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func() {}, nil
}
