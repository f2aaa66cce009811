package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tablehub/backend/internal/dto"
	"tablehub/backend/internal/model"
	"tablehub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportInvalidRange = errors.New("导出区间无效")
	ErrExportNoEntries    = errors.New("所选区间内没有打卡记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// exportMaxRange 单次导出的最大跨度
const exportMaxRange = 93 * 24 * time.Hour

// ExportService 导出业务接口
//
// 工时表包含两个 Sheet：
//   - 明细：每条打卡记录一行
//   - 汇总：每名员工一行，合计工时与预警次数
//
// 已驳回的记录不计入汇总工时
type ExportService interface {
	ExportTimesheet(ctx context.Context, caller Caller, req *dto.ExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	zones  *zoneResolver
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, zones *zoneResolver, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, zones: zones, logger: logger}
}

// TimesheetRow 工时表明细行
type TimesheetRow struct {
	UserID       string
	UserName     string
	ClockIn      time.Time
	ClockOut     *time.Time
	BreakMinutes int
	WorkedHours  decimal.Decimal
	InDeviation  *int
	OutDeviation *int
	HasWarning   bool
	Status       string
	IsSick       bool
}

// TimesheetTotal 工时表汇总行
type TimesheetTotal struct {
	UserID      string
	UserName    string
	Entries     int
	WorkedHours decimal.Decimal
	Warnings    int
}

// ═══════════════════════════════════════════════════════════
// ExportTimesheet — 导出工时表为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTimesheet(ctx context.Context, caller Caller, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	if !caller.IsSupervisor() {
		return nil, "", ErrPermissionDenied
	}
	if !req.To.After(req.From) || req.To.Sub(req.From) > exportMaxRange {
		return nil, "", ErrExportInvalidRange
	}

	// 1. 查询打卡记录
	entries, err := s.repo.TimeClockEntry.ListForExport(ctx, caller.OrganizationID, repository.EntryFilter{
		From:   req.From,
		To:     req.To,
		UserID: req.UserID,
	})
	if err != nil {
		s.logger.Error("查询导出打卡记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	loc, err := s.zones.Location(ctx, caller.OrganizationID)
	if err != nil {
		return nil, "", err
	}

	// 2. 计算明细与汇总
	rows, totals := BuildTimesheet(entries)

	// 3. 生成 Excel
	buf, err := writeTimesheet(rows, totals, loc)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("工时表_%s_%s.xlsx", req.From.In(loc).Format("20060102"), req.To.In(loc).Format("20060102"))
	return buf, filename, nil
}

// BuildTimesheet 计算每条记录的实际工时（扣除休息）与按员工的合计
func BuildTimesheet(entries []model.TimeClockEntry) ([]TimesheetRow, []TimesheetTotal) {
	rows := make([]TimesheetRow, 0, len(entries))
	byUser := make(map[string]*TimesheetTotal)

	for i := range entries {
		e := &entries[i]
		name := e.UserID
		if e.User != nil {
			name = e.User.Name
		}

		var breakDur time.Duration
		for j := range e.Breaks {
			breakDur += e.Breaks[j].Duration()
		}

		worked := decimal.Zero
		if e.ClockOut != nil {
			net := e.ClockOut.Sub(e.ClockIn) - breakDur
			if net > 0 {
				worked = decimal.NewFromInt(int64(net / time.Second)).Div(decimal.NewFromInt(3600)).Round(2)
			}
		}

		rows = append(rows, TimesheetRow{
			UserID:       e.UserID,
			UserName:     name,
			ClockIn:      e.ClockIn,
			ClockOut:     e.ClockOut,
			BreakMinutes: int(breakDur / time.Minute),
			WorkedHours:  worked,
			InDeviation:  e.ClockInDeviationMinutes,
			OutDeviation: e.ClockOutDeviationMinutes,
			HasWarning:   e.HasWarning,
			Status:       e.Status,
			IsSick:       e.IsSick,
		})

		t, ok := byUser[e.UserID]
		if !ok {
			t = &TimesheetTotal{UserID: e.UserID, UserName: name, WorkedHours: decimal.Zero}
			byUser[e.UserID] = t
		}
		t.Entries++
		if e.HasWarning {
			t.Warnings++
		}
		if e.Status != model.EntryStatusRejected {
			t.WorkedHours = t.WorkedHours.Add(worked)
		}
	}

	totals := make([]TimesheetTotal, 0, len(byUser))
	for _, t := range byUser {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].UserName != totals[j].UserName {
			return totals[i].UserName < totals[j].UserName
		}
		return totals[i].UserID < totals[j].UserID
	})
	return rows, totals
}

var entryStatusNames = map[string]string{
	model.EntryStatusOpen:     "进行中",
	model.EntryStatusClosed:   "待审核",
	model.EntryStatusApproved: "已审核",
	model.EntryStatusRejected: "已驳回",
}

func writeTimesheet(rows []TimesheetRow, totals []TimesheetTotal, loc *time.Location) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const detailSheet, totalSheet = "明细", "汇总"

	idx, err := f.NewSheet(detailSheet)
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(totalSheet); err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	warnStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})

	// ── 明细 ──
	detailHeader := []string{"员工", "日期", "上班", "下班", "休息(分钟)", "工时(小时)", "上班偏差", "下班偏差", "预警", "状态", "病假"}
	writeHeader(f, detailSheet, detailHeader, headerStyle)
	f.SetColWidth(detailSheet, "A", "A", 18)
	f.SetColWidth(detailSheet, "B", "D", 12)

	for i, r := range rows {
		row := i + 2
		in := r.ClockIn.In(loc)
		f.SetCellValue(detailSheet, cell("A", row), r.UserName)
		f.SetCellValue(detailSheet, cell("B", row), in.Format("2006-01-02"))
		f.SetCellValue(detailSheet, cell("C", row), in.Format("15:04"))
		if r.ClockOut != nil {
			f.SetCellValue(detailSheet, cell("D", row), r.ClockOut.In(loc).Format("15:04"))
			f.SetCellValue(detailSheet, cell("F", row), r.WorkedHours.InexactFloat64())
		}
		f.SetCellValue(detailSheet, cell("E", row), r.BreakMinutes)
		if r.InDeviation != nil {
			f.SetCellValue(detailSheet, cell("G", row), *r.InDeviation)
		}
		if r.OutDeviation != nil {
			f.SetCellValue(detailSheet, cell("H", row), *r.OutDeviation)
		}
		f.SetCellValue(detailSheet, cell("I", row), yesNo(r.HasWarning))
		f.SetCellValue(detailSheet, cell("J", row), entryStatusNames[r.Status])
		f.SetCellValue(detailSheet, cell("K", row), yesNo(r.IsSick))
		if r.HasWarning {
			f.SetCellStyle(detailSheet, cell("A", row), cell("K", row), warnStyle)
		}
	}

	// ── 汇总 ──
	writeHeader(f, totalSheet, []string{"员工", "记录数", "工时合计(小时)", "预警次数"}, headerStyle)
	f.SetColWidth(totalSheet, "A", "A", 18)
	f.SetColWidth(totalSheet, "C", "C", 16)
	for i, t := range totals {
		row := i + 2
		f.SetCellValue(totalSheet, cell("A", row), t.UserName)
		f.SetCellValue(totalSheet, cell("B", row), t.Entries)
		f.SetCellValue(totalSheet, cell("C", row), t.WorkedHours.InexactFloat64())
		f.SetCellValue(totalSheet, cell("D", row), t.Warnings)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, titles []string, style int) {
	for i, title := range titles {
		f.SetCellValue(sheet, cell(colName(i), 1), title)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(titles)-1), 1), style)
}

// colName 0 → "A", 1 → "B" ...
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}
