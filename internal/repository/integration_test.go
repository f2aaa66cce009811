//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
	"tablehub/backend/pkg/database"
	pkgerrors "tablehub/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=backoffice password=backoffice dbname=backoffice_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}
	if err := testDB.Use(database.NewTenantGuardPlugin()); err != nil {
		fmt.Fprintf(os.Stderr, "安装租户隔离插件失败: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

type fixture struct {
	org      *model.Organization
	position *model.Position
	user     *model.User
}

// setupTestData 创建组织、岗位、员工并返回清理函数
func setupTestData(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	org := &model.Organization{Name: fmt.Sprintf("测试餐厅-%d", suffix), Timezone: "Europe/Berlin", IsActive: true}
	if err := testDB.WithContext(ctx).Create(org).Error; err != nil {
		t.Fatalf("创建组织失败: %v", err)
	}
	pos := &model.Position{OrganizationID: org.OrganizationID, Name: "厨房", IsActive: true}
	if err := testDB.WithContext(ctx).Create(pos).Error; err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}
	user := &model.User{
		OrganizationID: org.OrganizationID,
		Name:           "测试员工",
		Email:          fmt.Sprintf("worker%d@example.com", suffix),
		PasswordHash:   "$2a$10$placeholder",
		Role:           model.RoleEmployee,
		PositionID:     &pos.PositionID,
		IsActive:       true,
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("创建员工失败: %v", err)
	}

	cleanup := func() {
		db := testDB.Session(&gorm.Session{NewDB: true}).Unscoped()
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.TimeClockChangeLog{})
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.BreakEntry{})
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.TimeClockEntry{})
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.Shift{})
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.User{})
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.Position{})
		db.Where("organization_id = ?", org.OrganizationID).Delete(&model.Organization{})
	}
	return &fixture{org: org, position: pos, user: user}, cleanup
}

// ═══════════════════════════════════════════════════════════
// Test: 唯一约束
// ═══════════════════════════════════════════════════════════

func TestTimeClockEntry_OnlyOneOpenPerUser(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.TimeClockEntry{
		OrganizationID: f.org.OrganizationID,
		UserID:         f.user.UserID,
		ClockIn:        time.Now().UTC(),
		Status:         model.EntryStatusOpen,
	}
	if err := repo.TimeClockEntry.Create(ctx, first); err != nil {
		t.Fatalf("创建第一条打卡失败: %v", err)
	}

	second := &model.TimeClockEntry{
		OrganizationID: f.org.OrganizationID,
		UserID:         f.user.UserID,
		ClockIn:        time.Now().UTC(),
		Status:         model.EntryStatusOpen,
	}
	err := repo.TimeClockEntry.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望 ErrDuplicatedKey，实际=%v", err)
	}
}

func TestBreakEntry_OnlyOneOpenPerEntry(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	entry := &model.TimeClockEntry{
		OrganizationID: f.org.OrganizationID,
		UserID:         f.user.UserID,
		ClockIn:        time.Now().UTC().Add(-time.Hour),
		Status:         model.EntryStatusOpen,
	}
	if err := repo.TimeClockEntry.Create(ctx, entry); err != nil {
		t.Fatalf("创建打卡失败: %v", err)
	}

	newBreak := func() *model.BreakEntry {
		return &model.BreakEntry{
			OrganizationID:   f.org.OrganizationID,
			UserID:           f.user.UserID,
			TimeClockEntryID: entry.EntryID,
			BreakStart:       time.Now().UTC(),
		}
	}
	b := newBreak()
	if err := repo.BreakEntry.Create(ctx, b); err != nil {
		t.Fatalf("创建休息失败: %v", err)
	}
	if err := repo.BreakEntry.Create(ctx, newBreak()); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("期望 ErrDuplicatedKey，实际=%v", err)
	}

	if err := repo.BreakEntry.Close(ctx, b, time.Now().UTC()); err != nil {
		t.Fatalf("结束休息失败: %v", err)
	}
	if err := repo.BreakEntry.Close(ctx, b, time.Now().UTC()); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("重复结束休息期望 ErrOptimisticLock，实际=%v", err)
	}
	if _, err := repo.BreakEntry.GetOpenByEntry(ctx, f.org.OrganizationID, entry.EntryID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望无进行中休息，实际=%v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 乐观锁与审核
// ═══════════════════════════════════════════════════════════

func TestTimeClockEntry_UpdateOptimisticLock(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	entry := &model.TimeClockEntry{
		OrganizationID: f.org.OrganizationID,
		UserID:         f.user.UserID,
		ClockIn:        time.Now().UTC().Add(-2 * time.Hour),
		Status:         model.EntryStatusOpen,
	}
	if err := repo.TimeClockEntry.Create(ctx, entry); err != nil {
		t.Fatalf("创建打卡失败: %v", err)
	}

	stale := *entry
	out := time.Now().UTC()
	entry.ClockOut = &out
	entry.Status = model.EntryStatusClosed
	if err := repo.TimeClockEntry.Update(ctx, entry); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if entry.Version != 2 {
		t.Errorf("期望 version=2，实际=%d", entry.Version)
	}

	if err := repo.TimeClockEntry.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际=%v", err)
	}
}

func TestTimeClockEntry_ApproveOnlyClosed(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	in := time.Now().UTC().Add(-48 * time.Hour)
	out := in.Add(8 * time.Hour)
	closed := &model.TimeClockEntry{
		OrganizationID: f.org.OrganizationID, UserID: f.user.UserID,
		ClockIn: in, ClockOut: &out, Status: model.EntryStatusClosed,
	}
	open := &model.TimeClockEntry{
		OrganizationID: f.org.OrganizationID, UserID: f.user.UserID,
		ClockIn: time.Now().UTC(), Status: model.EntryStatusOpen,
	}
	for _, e := range []*model.TimeClockEntry{closed, open} {
		if err := repo.TimeClockEntry.Create(ctx, e); err != nil {
			t.Fatalf("创建打卡失败: %v", err)
		}
	}

	n, err := repo.TimeClockEntry.Approve(ctx, f.org.OrganizationID,
		[]string{closed.EntryID, open.EntryID}, f.user.UserID, time.Now().UTC())
	if err != nil {
		t.Fatalf("审核失败: %v", err)
	}
	if n != 1 {
		t.Errorf("期望仅 1 条被审核，实际=%d", n)
	}

	got, err := repo.TimeClockEntry.GetByID(ctx, f.org.OrganizationID, closed.EntryID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Status != model.EntryStatusApproved || !got.IsApproved || got.ApprovedAt == nil {
		t.Errorf("审核字段未写入: %+v", got)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 租户隔离
// ═══════════════════════════════════════════════════════════

func TestShift_TenantScoped(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()
	other, cleanupOther := setupTestData(t)
	defer cleanupOther()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	start := time.Date(2030, 3, 4, 8, 0, 0, 0, time.UTC)
	shift := &model.Shift{
		OrganizationID: f.org.OrganizationID,
		UserID:         &f.user.UserID,
		PositionID:     f.position.PositionID,
		StartTime:      start,
		EndTime:        start.Add(8 * time.Hour),
		Status:         model.ShiftStatusScheduled,
	}
	if err := repo.Shift.Create(ctx, shift); err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	if _, err := repo.Shift.GetByID(ctx, other.org.OrganizationID, shift.ShiftID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("其他组织不应查到该班次，实际=%v", err)
	}

	// 插件在 context 携带组织 ID 时自动追加过滤
	scoped := database.WithOrganization(ctx, other.org.OrganizationID)
	var count int64
	testDB.WithContext(scoped).Model(&model.Shift{}).Where("shift_id = ?", shift.ShiftID).Count(&count)
	if count != 0 {
		t.Errorf("租户插件未生效，count=%d", count)
	}

	shifts, err := repo.Shift.ListByUserBetween(ctx, f.org.OrganizationID, f.user.UserID, start, start.Add(time.Minute))
	if err != nil || len(shifts) != 1 {
		t.Errorf("期望查到 1 条班次，实际=%d, err=%v", len(shifts), err)
	}
	shifts, _ = repo.Shift.ListByUserBetween(ctx, f.org.OrganizationID, f.user.UserID, start.Add(time.Minute), start.Add(time.Hour))
	if len(shifts) != 0 {
		t.Errorf("区间左闭右开，期望 0 条，实际=%d", len(shifts))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	f, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var created *model.TimeClockEntry
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		created = &model.TimeClockEntry{
			OrganizationID: f.org.OrganizationID,
			UserID:         f.user.UserID,
			ClockIn:        time.Now().UTC(),
			Status:         model.EntryStatusOpen,
		}
		if err := txRepo.TimeClockEntry.Create(ctx, created); err != nil {
			return err
		}
		return errors.New("强制回滚")
	})
	if err == nil {
		t.Fatal("期望事务返回错误")
	}

	if _, err := repo.TimeClockEntry.GetByID(ctx, f.org.OrganizationID, created.EntryID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("期望回滚后查不到记录，实际=%v", err)
	}
}
